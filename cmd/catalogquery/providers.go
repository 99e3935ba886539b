// Copyright The CivicData Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/civicdata/catalog-query-service/internal/domain/port"
	"github.com/civicdata/catalog-query-service/internal/infrastructure/coreapi"
	"github.com/civicdata/catalog-query-service/internal/infrastructure/mock"
	"github.com/civicdata/catalog-query-service/internal/infrastructure/nats"
	"github.com/civicdata/catalog-query-service/internal/infrastructure/opensearch"
	"github.com/civicdata/catalog-query-service/pkg/constants"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func opensearchConfig() opensearch.Config {
	return opensearch.Config{
		URL:           getenv("OPENSEARCH_URL", "http://localhost:9200"),
		DocumentIndex: getenv("OPENSEARCH_DOCUMENT_INDEX", "catalog"),
		DomainIndex:   getenv("OPENSEARCH_DOMAIN_INDEX", "domains"),
	}
}

// SearcherImpl injects the catalog searcher implementation
func SearcherImpl(ctx context.Context) port.CatalogSearcher {
	source := getenv("SEARCH_SOURCE", "opensearch")

	switch source {
	case "mock":
		slog.InfoContext(ctx, "initializing mock catalog searcher")
		return mock.NewMockCatalogSearcher()

	case "opensearch":
		config := opensearchConfig()
		slog.InfoContext(ctx, "initializing opensearch catalog searcher",
			"url", config.URL,
			"index", config.DocumentIndex,
		)
		searcher, err := opensearch.NewSearcher(ctx, config)
		if err != nil {
			log.Fatalf("failed to initialize OpenSearch searcher: %v", err)
		}
		return searcher

	default:
		log.Fatalf("unsupported search implementation: %s", source)
		return nil
	}
}

// DomainRegistryImpl injects the domain registry implementation
func DomainRegistryImpl(ctx context.Context) port.DomainRegistry {
	source := getenv("DOMAIN_REGISTRY_SOURCE", "opensearch")

	switch source {
	case "mock":
		slog.InfoContext(ctx, "initializing mock domain registry")
		return mock.NewMockDomainRegistry()

	case "opensearch":
		config := opensearchConfig()
		slog.InfoContext(ctx, "initializing opensearch domain registry",
			"url", config.URL,
			"index", config.DomainIndex,
		)
		registry, err := opensearch.NewDomainRegistry(ctx, config)
		if err != nil {
			log.Fatalf("failed to initialize OpenSearch domain registry: %v", err)
		}
		return registry

	default:
		log.Fatalf("unsupported domain registry implementation: %s", source)
		return nil
	}
}

// IdentityResolverImpl injects the identity resolver implementation
func IdentityResolverImpl(ctx context.Context) port.IdentityResolver {
	source := getenv("IDENTITY_SOURCE", "coreapi")

	switch source {
	case "mock":
		slog.InfoContext(ctx, "initializing mock identity resolver")
		return mock.NewMockIdentityResolver()

	case "coreapi":
		config, err := coreapi.NewConfig(
			getenv("CORE_API_URL", "http://localhost:8081"),
			os.Getenv("CORE_API_TIMEOUT"),
		)
		if err != nil {
			log.Fatalf("failed to create user directory configuration: %v", err)
		}

		slog.InfoContext(ctx, "initializing user directory identity resolver",
			"base_url", config.BaseURL,
			"timeout", config.Timeout,
		)
		return coreapi.NewIdentityResolver(config)

	default:
		log.Fatalf("unsupported identity implementation: %s", source)
		return nil
	}
}

// RoleCheckerImpl injects the role checker implementation
func RoleCheckerImpl(ctx context.Context) port.RoleChecker {
	source := getenv("ROLE_CHECK_SOURCE", "nats")

	switch source {
	case "mock":
		slog.InfoContext(ctx, "initializing mock role checker")
		return mock.NewMockRoleChecker()

	case "nats":
		timeout, err := time.ParseDuration(getenv("NATS_TIMEOUT", constants.RoleCheckTimeout.String()))
		if err != nil {
			log.Fatalf("invalid NATS timeout duration: %v", err)
		}
		maxReconnect, err := strconv.Atoi(getenv("NATS_MAX_RECONNECT", "3"))
		if err != nil {
			log.Fatalf("invalid NATS max reconnect value: %v", err)
		}
		reconnectWait, err := time.ParseDuration(getenv("NATS_RECONNECT_WAIT", "2s"))
		if err != nil {
			log.Fatalf("invalid NATS reconnect wait duration: %v", err)
		}

		slog.InfoContext(ctx, "initializing NATS role checker")
		checker, err := nats.NewRoleChecker(ctx, nats.Config{
			URL:           getenv("NATS_URL", "nats://localhost:4222"),
			Timeout:       timeout,
			MaxReconnect:  maxReconnect,
			ReconnectWait: reconnectWait,
		})
		if err != nil {
			log.Fatalf("failed to initialize NATS role checker: %v", err)
		}
		return checker

	default:
		log.Fatalf("unsupported role check implementation: %s", source)
		return nil
	}
}
