package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/gymvariations/internal/telemetry/tracing"
	"github.com/2beens/gymvariations/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "gymvariations-session||"
	tokensSetKey     = "gymvariations-sessions"
	tokenLength      = 35
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrOwnerEmpty      = errors.New("owner empty")
)

// Service maps session tokens to owner ids. Tokens are issued by an
// operator tool or an external identity provider; the service only resolves them.
type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewAuthService(
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (as *Service) NewSession(ctx context.Context, owner string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.session.new")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	owner = strings.TrimSpace(owner)
	if owner == "" {
		return "", ErrOwnerEmpty
	}

	token, err := as.RandStringFunc(tokenLength)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	sessionKey := sessionKeyPrefix + token
	cmdSet := as.redisClient.Set(ctx, sessionKey, owner, as.ttl)
	if err := cmdSet.Err(); err != nil {
		return "", err
	}

	// add token to list of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", err
	}

	return token, nil
}

// Resolve returns the owner id of the session identified by token.
func (as *Service) Resolve(ctx context.Context, token string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.session.resolve")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if token == "" {
		return "", ErrSessionNotFound
	}

	cmd := as.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("get session: %w", err)
	}

	owner := cmd.Val()
	if owner == "" {
		return "", ErrSessionNotFound
	}
	return owner, nil
}

func (as *Service) Revoke(ctx context.Context, token string) (bool, error) {
	cmdDel := as.redisClient.Del(ctx, sessionKeyPrefix+token)
	if err := cmdDel.Err(); err != nil {
		return false, err
	}

	// remove token from the list of sessions
	cmdSRem := as.redisClient.SRem(ctx, tokensSetKey, token)
	if err := cmdSRem.Err(); err != nil {
		return false, err
	}

	return cmdDel.Val() > 0, nil
}

// ScanAndClean drops tokens of expired sessions from the sessions set.
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		cmd := as.redisClient.Exists(ctx, sessionKeyPrefix+token)
		if err := cmd.Err(); err != nil {
			log.Errorf("auth service, scan and clean token %s: %s", token, err)
			continue
		}
		if cmd.Val() == 0 {
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		cmdSRem := as.redisClient.SRem(ctx, tokensSetKey, token)
		if err := cmdSRem.Err(); err != nil {
			log.Errorf("auth service, clean token %s: %s", token, err)
			continue
		}
	}
	log.Debugf("auth service, scan and clean done, %d expired sessions removed", len(toRemove))
}
