// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses configuration flags from args.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc server address in format [host]:[port]
//	-remote remote HTTP API address used by the client
//	-remote-grpc remote gRPC health address used by the client
//	-d database DSN (server)
//	-local-dsn local SQLite DSN (client)
//	-tombstones tombstone ledger file path (client)
//	-c/-config json file path with configs
//	-env-file dotenv file path
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-token bearer token used by the client
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-subject user id for cmd/token
//	-hash-key security hash key
//	-sync-interval scheduled sync period
//	-log-level minimum log level
func parseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress, grpcServerAddress NetAddress
	var remoteAddress, remoteGRPCAddress string
	var databaseDSN, localDSN, tombstonesPath string
	var jsonConfigPath, envFilePath string
	var tokenSignKey, tokenIssuer, tokenSubject, token string
	var tokenDuration, requestTimeout, syncInterval time.Duration
	var hashKey, logLevel string

	fs := flag.NewFlagSet("go-fin-sync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&remoteAddress, "remote", "", "Remote API address")
	fs.StringVar(&remoteGRPCAddress, "remote-grpc", "", "Remote gRPC health address")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&localDSN, "local-dsn", "", "Local SQLite DSN")
	fs.StringVar(&tombstonesPath, "tombstones", "", "Tombstone ledger file path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&envFilePath, "env-file", "", "Dotenv file path")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.StringVar(&tokenSubject, "subject", "", "User id to issue a token for")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.StringVar(&token, "token", "", "Bearer token")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&hashKey, "hash-key", "", "Security hash key")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Scheduled sync interval")
	fs.StringVar(&logLevel, "log-level", "", "Minimum log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			TokenSubject:  tokenSubject,
			HashKey:       hashKey,
			Token:         token,
			LogLevel:      logLevel,
		},
		Storage: Storage{
			DB:         DB{DSN: databaseDSN},
			Local:      Local{DSN: localDSN},
			Tombstones: Tombstones{Path: tombstonesPath},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    remoteAddress,
			GRPCAddress:    remoteGRPCAddress,
			RequestTimeout: requestTimeout,
		},
		Workers:      Workers{SyncInterval: syncInterval},
		JSONFilePath: jsonConfigPath,
		EnvFilePath:  envFilePath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
