package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"paykript/internal/shared/logger"
)

// migrationNamePattern only allows alphanumeric characters, underscores, and hyphens
var migrationNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Generator handles creation of new migration files
type Generator struct {
	scriptsPath string
	logger      logger.Interface
}

// NewGenerator creates a new migration generator
func NewGenerator(scriptsPath string) *Generator {
	return &Generator{
		scriptsPath: scriptsPath,
		logger:      logger.NewLogger().With("component", "migration.generator"),
	}
}

// CreateMigration creates a new migration file pair (up and down)
func (g *Generator) CreateMigration(name string) error {
	g.logger.Infow("creating new migration", "name", name)

	// Validate migration name to prevent path traversal
	name = strings.TrimSpace(name)
	if !migrationNamePattern.MatchString(name) {
		return fmt.Errorf("invalid migration name: only alphanumeric characters, underscores, and hyphens are allowed")
	}

	// Generate timestamp
	timestamp := time.Now().Format("20060102150405")

	// Generate file names
	upFileName := fmt.Sprintf("%s_%s.up.sql", timestamp, name)
	downFileName := fmt.Sprintf("%s_%s.down.sql", timestamp, name)

	upFilePath := filepath.Join(g.scriptsPath, upFileName)
	downFilePath := filepath.Join(g.scriptsPath, downFileName)

	// Validate paths to prevent path traversal
	if err := g.validatePath(upFilePath); err != nil {
		return fmt.Errorf("invalid up file path: %w", err)
	}
	if err := g.validatePath(downFilePath); err != nil {
		return fmt.Errorf("invalid down file path: %w", err)
	}

	// Ensure scripts directory exists
	if err := os.MkdirAll(g.scriptsPath, 0755); err != nil {
		return fmt.Errorf("failed to create scripts directory: %w", err)
	}

	// Create up migration file
	upContent := g.generateUpMigrationTemplate(name)
	if err := g.writeFile(upFilePath, upContent); err != nil {
		return fmt.Errorf("failed to create up migration file: %w", err)
	}

	// Create down migration file
	downContent := g.generateDownMigrationTemplate(name)
	if err := g.writeFile(downFilePath, downContent); err != nil {
		return fmt.Errorf("failed to create down migration file: %w", err)
	}

	g.logger.Infow("migration files created successfully",
		"up_file", upFilePath,
		"down_file", downFilePath)

	return nil
}

// validatePath ensures the file path is within the scripts directory
func (g *Generator) validatePath(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	absBase, err := filepath.Abs(g.scriptsPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute base path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path traversal detected")
	}
	return nil
}

// writeFile writes content to a file
func (g *Generator) writeFile(filePath, content string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(content)
	return err
}

// generateUpMigrationTemplate generates a template for up migration
func (g *Generator) generateUpMigrationTemplate(name string) string {
	return fmt.Sprintf(`-- Migration: %s
-- Created: %s
-- Description: Add description here

-- Add your SQL statements here
-- Example:
-- CREATE TABLE example_table (
--     id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
--     name VARCHAR(255) NOT NULL,
--     created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
--     updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
-- );

`, name, time.Now().Format("2006-01-02 15:04:05"))
}

// generateDownMigrationTemplate generates a template for down migration
func (g *Generator) generateDownMigrationTemplate(name string) string {
	return fmt.Sprintf(`-- Rollback Migration: %s
-- Created: %s
-- Description: Add rollback description here

-- Add your rollback SQL statements here
-- Example:
-- DROP TABLE IF EXISTS example_table;

`, name, time.Now().Format("2006-01-02 15:04:05"))
}

// CreateInitialSchemaMigration creates the gateway's base schema migration:
// merchants, api_credentials, wallets, payment_requests, chain_transactions.
func (g *Generator) CreateInitialSchemaMigration() error {
	g.logger.Infow("creating initial schema migration")

	timestamp := "000001"
	name := "create_gateway_schema"

	upFileName := fmt.Sprintf("%s_%s.up.sql", timestamp, name)
	downFileName := fmt.Sprintf("%s_%s.down.sql", timestamp, name)

	upFilePath := filepath.Join(g.scriptsPath, upFileName)
	downFilePath := filepath.Join(g.scriptsPath, downFileName)

	if err := g.validatePath(upFilePath); err != nil {
		return fmt.Errorf("invalid up file path: %w", err)
	}
	if err := g.validatePath(downFilePath); err != nil {
		return fmt.Errorf("invalid down file path: %w", err)
	}

	if err := os.MkdirAll(g.scriptsPath, 0755); err != nil {
		return fmt.Errorf("failed to create scripts directory: %w", err)
	}

	if err := g.writeFile(upFilePath, g.generateGatewaySchemaUpMigration()); err != nil {
		return fmt.Errorf("failed to create gateway schema up migration: %w", err)
	}
	if err := g.writeFile(downFilePath, g.generateGatewaySchemaDownMigration()); err != nil {
		return fmt.Errorf("failed to create gateway schema down migration: %w", err)
	}

	g.logger.Infow("gateway schema migration created successfully",
		"up_file", upFilePath,
		"down_file", downFilePath)

	return nil
}

func (g *Generator) generateGatewaySchemaUpMigration() string {
	return `-- Migration: Create gateway schema
-- Created: Initial migration
-- Description: merchants, api_credentials, wallets, payment_requests, chain_transactions

CREATE TABLE IF NOT EXISTS merchants (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    email VARCHAR(255) NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uq_merchants_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;

CREATE TABLE IF NOT EXISTS api_credentials (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    merchant_id BIGINT UNSIGNED NOT NULL,
    public_id VARCHAR(64) NOT NULL,
    secret_hash VARCHAR(255) NOT NULL,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    last_used_at TIMESTAMP NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uq_api_credentials_public_id (public_id),
    INDEX idx_api_credentials_merchant_id (merchant_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;

CREATE TABLE IF NOT EXISTS wallets (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    merchant_id BIGINT UNSIGNED NOT NULL,
    name VARCHAR(255) NOT NULL,
    xpub VARCHAR(512) NOT NULL,
    network VARCHAR(32) NOT NULL,
    derivation_prefix VARCHAR(64),
    address_index INT UNSIGNED NOT NULL DEFAULT 0,
    active BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    INDEX idx_wallets_merchant_id (merchant_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;

CREATE TABLE IF NOT EXISTS payment_requests (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    merchant_id BIGINT UNSIGNED NOT NULL,
    wallet_id BIGINT UNSIGNED NOT NULL,
    order_id VARCHAR(191) NOT NULL,
    amount DECIMAL(24,6) NOT NULL,
    currency VARCHAR(8) NOT NULL DEFAULT 'USDT',
    address VARCHAR(64) NOT NULL,
    address_index INT UNSIGNED NOT NULL,
    status VARCHAR(16) NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    confirmed_at TIMESTAMP NULL,
    webhook_url VARCHAR(2048),
    webhook_sent BOOLEAN NOT NULL DEFAULT FALSE,
    webhook_attempts INT NOT NULL DEFAULT 0,
    customer_email VARCHAR(255),
    notes TEXT,
    metadata JSON,
    version INT NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    INDEX idx_payment_requests_merchant_id (merchant_id),
    INDEX idx_payment_requests_wallet_id (wallet_id),
    INDEX idx_payment_requests_address (address),
    INDEX idx_payment_requests_status (status),
    INDEX idx_payment_requests_expires_at (expires_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;

CREATE TABLE IF NOT EXISTS chain_transactions (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    payment_request_id BIGINT UNSIGNED NOT NULL,
    tx_hash VARCHAR(191) NOT NULL,
    from_address VARCHAR(64),
    to_address VARCHAR(64),
    amount DECIMAL(24,6) NOT NULL,
    currency VARCHAR(8) NOT NULL DEFAULT 'USDT',
    network VARCHAR(32) NOT NULL,
    contract VARCHAR(64),
    block_number BIGINT UNSIGNED,
    block_timestamp TIMESTAMP NULL,
    confirmations INT NOT NULL DEFAULT 0,
    status VARCHAR(16) NOT NULL,
    detected_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    confirmed_at TIMESTAMP NULL,
    UNIQUE KEY uq_chain_transactions_tx_hash (tx_hash),
    INDEX idx_chain_transactions_payment_request_id (payment_request_id),
    INDEX idx_chain_transactions_to_address (to_address),
    INDEX idx_chain_transactions_status (status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
`
}

func (g *Generator) generateGatewaySchemaDownMigration() string {
	return `-- Rollback Migration: Create gateway schema
-- Created: Initial migration rollback

DROP TABLE IF EXISTS chain_transactions;
DROP TABLE IF EXISTS payment_requests;
DROP TABLE IF EXISTS wallets;
DROP TABLE IF EXISTS api_credentials;
DROP TABLE IF EXISTS merchants;
`
}
