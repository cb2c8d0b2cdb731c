package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/2beens/gymvariations/internal/auth"
	"github.com/2beens/gymvariations/internal/gymstats/exercises"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// Issues a session token for an owner id, for setups without an external
// identity provider. Prints the token to stdout.
func main() {
	owner := flag.String("owner", "", "owner id the session is issued for")
	redisHost := flag.String("redis-host", "localhost", "redis host")
	redisPort := flag.String("redis-port", "6379", "redis port")
	ttl := flag.Duration("ttl", auth.DefaultTTL, "session time to live")
	revoke := flag.String("revoke", "", "revoke the given token instead of issuing a new one")
	flag.Parse()

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(*redisHost, *redisPort),
		Password: os.Getenv("GYMVARIATIONS_REDIS_PASS"),
		DB:       0,
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Errorf("close redis client: %s", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	authService := auth.NewAuthService(*ttl, rdb)

	if *revoke != "" {
		removed, err := authService.Revoke(ctx, *revoke)
		if err != nil {
			log.Fatalf("revoke session: %s", err)
		}
		log.Infof("session revoked: %t", removed)
		return
	}

	if *owner == exercises.SystemOwner {
		log.Fatalf("owner [%s] is reserved for built-in exercises", exercises.SystemOwner)
	}

	token, err := authService.NewSession(ctx, *owner)
	if err != nil {
		log.Fatalf("new session: %s", err)
	}
	fmt.Println(token)
}
