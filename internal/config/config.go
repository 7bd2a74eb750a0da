package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr        string
	DBDSN           string
	RedisURL        string
	JWTIssuer       string
	JWTSecret       string
	JWTTTL          time.Duration
	WebSocketOrigin string
	LogLevel        string
	SignupGrant     int64
	PriceTimeout    time.Duration
}

func Load() (Config, error) {
	var c Config
	var missing []string
	c.HTTPAddr = os.Getenv("HTTP_ADDR")
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	c.DBDSN = os.Getenv("DB_DSN")
	c.RedisURL = os.Getenv("REDIS_URL")
	c.JWTIssuer = os.Getenv("JWT_ISSUER")
	if c.JWTIssuer == "" {
		missing = append(missing, "JWT_ISSUER")
	}
	c.JWTSecret = os.Getenv("JWT_SECRET")
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	jwtTTL := os.Getenv("JWT_TTL")
	if jwtTTL == "" {
		c.JWTTTL = 24 * time.Hour
	} else {
		d, err := time.ParseDuration(jwtTTL)
		if err != nil {
			return c, errors.New("invalid JWT_TTL")
		}
		c.JWTTTL = d
	}
	c.WebSocketOrigin = os.Getenv("WS_ORIGIN")
	c.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	grant := os.Getenv("SIGNUP_GRANT")
	if grant == "" {
		c.SignupGrant = 100000
	} else {
		n, err := strconv.ParseInt(grant, 10, 64)
		if err != nil || n < 0 {
			return c, errors.New("invalid SIGNUP_GRANT")
		}
		c.SignupGrant = n
	}
	priceTimeout := os.Getenv("PRICE_TIMEOUT")
	if priceTimeout == "" {
		c.PriceTimeout = 2 * time.Second
	} else {
		d, err := time.ParseDuration(priceTimeout)
		if err != nil {
			return c, errors.New("invalid PRICE_TIMEOUT")
		}
		c.PriceTimeout = d
	}
	if len(missing) > 0 {
		return c, errors.New("missing required env: " + strings.Join(missing, ","))
	}
	return c, nil
}
