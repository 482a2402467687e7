package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS towmast (
		dispnum BIGINT NOT NULL,
		company_id VARCHAR(36) NOT NULL,
		vehicle_year VARCHAR(4) NOT NULL DEFAULT '',
		make VARCHAR(30) NOT NULL DEFAULT '',
		model VARCHAR(30) NOT NULL DEFAULT '',
		color VARCHAR(20) NOT NULL DEFAULT '',
		vin VARCHAR(20) NOT NULL DEFAULT '',
		license_num VARCHAR(10) NOT NULL DEFAULT '',
		license_state VARCHAR(2) NOT NULL DEFAULT '',
		towed_from VARCHAR(60) NOT NULL DEFAULT '',
		towed_to VARCHAR(60) NOT NULL DEFAULT '',
		who_called VARCHAR(40) NOT NULL DEFAULT '',
		phone VARCHAR(14) NOT NULL DEFAULT '',
		reason VARCHAR(40) NOT NULL DEFAULT '',
		priority VARCHAR(10) NOT NULL DEFAULT '',
		billing_name VARCHAR(40) NOT NULL DEFAULT '',
		member_num VARCHAR(20) NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		reference_num VARCHAR(20) NOT NULL DEFAULT '',
		stock_num VARCHAR(20) NOT NULL DEFAULT '',
		auction_num VARCHAR(20) NOT NULL DEFAULT '',
		release_lic VARCHAR(20) NOT NULL DEFAULT '',
		invoice_num VARCHAR(20) NOT NULL DEFAULT '',
		po_num VARCHAR(20) NOT NULL DEFAULT '',
		tow_date TIMESTAMPTZ,
		date_out TIMESTAMPTZ,
		transport BOOLEAN NOT NULL DEFAULT FALSE,
		dispatched BOOLEAN NOT NULL DEFAULT FALSE,
		dispcleared BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (dispnum, company_id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_towmast_company_id ON towmast (company_id);`,
	`CREATE INDEX IF NOT EXISTS idx_towmast_tow_date ON towmast (tow_date);`,
	`CREATE INDEX IF NOT EXISTS idx_towmast_license_num ON towmast (license_num);`,
	`CREATE INDEX IF NOT EXISTS idx_towmast_dispcleared ON towmast (dispcleared);`,
	// towhist mirrors towmast so archived rows scan with the same model.
	`CREATE TABLE IF NOT EXISTS towhist (LIKE towmast INCLUDING ALL);`,
	`CREATE TABLE IF NOT EXISTS towdrive (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id VARCHAR(36) NOT NULL,
		dispnumdrv BIGINT NOT NULL,
		driver_num VARCHAR(10) NOT NULL DEFAULT '',
		truck_num VARCHAR(10) NOT NULL DEFAULT '',
		tow_tag_num VARCHAR(20) NOT NULL DEFAULT '',
		time_received VARCHAR(5) NOT NULL DEFAULT '',
		time_enroute VARCHAR(5) NOT NULL DEFAULT '',
		time_arrived VARCHAR(5) NOT NULL DEFAULT '',
		time_intow VARCHAR(5) NOT NULL DEFAULT '',
		time_cleared VARCHAR(5) NOT NULL DEFAULT '',
		dispcleared BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_towdrive_company_id ON towdrive (company_id);`,
	`CREATE INDEX IF NOT EXISTS idx_towdrive_dispnumdrv ON towdrive (dispnumdrv);`,
	`CREATE INDEX IF NOT EXISTS idx_towdrive_driver_num ON towdrive (driver_num);`,
	`CREATE INDEX IF NOT EXISTS idx_towdrive_tow_tag_num ON towdrive (tow_tag_num);`,
	`CREATE INDEX IF NOT EXISTS idx_towdrive_dispcleared ON towdrive (dispcleared);`,
	`CREATE TABLE IF NOT EXISTS towinv (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id VARCHAR(36) NOT NULL,
		dispnum BIGINT NOT NULL,
		invoice_num VARCHAR(20) NOT NULL DEFAULT '',
		po_num VARCHAR(20) NOT NULL DEFAULT '',
		billing_name VARCHAR(40) NOT NULL DEFAULT '',
		billing_address VARCHAR(80) NOT NULL DEFAULT '',
		account_num VARCHAR(20) NOT NULL DEFAULT '',
		total DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_towinv_company_id ON towinv (company_id);`,
	`CREATE INDEX IF NOT EXISTS idx_towinv_dispnum ON towinv (dispnum);`,
	`CREATE INDEX IF NOT EXISTS idx_towinv_invoice_num ON towinv (invoice_num);`,
	`CREATE INDEX IF NOT EXISTS idx_towinv_po_num ON towinv (po_num);`,
	`CREATE TABLE IF NOT EXISTS towtrans (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id VARCHAR(36) NOT NULL,
		dispnum BIGINT NOT NULL,
		description VARCHAR(50) NOT NULL DEFAULT '',
		quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		extended DOUBLE PRECISION NOT NULL DEFAULT 0,
		discount BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_towtrans_company_id ON towtrans (company_id);`,
	`CREATE INDEX IF NOT EXISTS idx_towtrans_dispnum ON towtrans (dispnum);`,
	`CREATE TABLE IF NOT EXISTS drivers (
		driver_num VARCHAR(10) NOT NULL,
		company_id VARCHAR(36) NOT NULL,
		name VARCHAR(40) NOT NULL DEFAULT '',
		phone VARCHAR(14) NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (driver_num, company_id)
	);`,
	`CREATE TABLE IF NOT EXISTS trucks (
		truck_num VARCHAR(10) NOT NULL,
		company_id VARCHAR(36) NOT NULL,
		description VARCHAR(40) NOT NULL DEFAULT '',
		plate_num VARCHAR(10) NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (truck_num, company_id)
	);`,
	`CREATE TABLE IF NOT EXISTS customers (
		account_num VARCHAR(20) NOT NULL,
		company_id VARCHAR(36) NOT NULL,
		name VARCHAR(40) NOT NULL DEFAULT '',
		address VARCHAR(80) NOT NULL DEFAULT '',
		phone VARCHAR(14) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (account_num, company_id)
	);`,
	`CREATE TABLE IF NOT EXISTS car_makes (
		make VARCHAR(30) PRIMARY KEY
	);`,
	`CREATE TABLE IF NOT EXISTS car_models (
		make VARCHAR(30) NOT NULL,
		model VARCHAR(30) NOT NULL,
		PRIMARY KEY (make, model)
	);`,
	`CREATE TABLE IF NOT EXISTS kits (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		company_id VARCHAR(36) NOT NULL,
		name VARCHAR(30) NOT NULL DEFAULT '',
		description VARCHAR(50) NOT NULL DEFAULT '',
		quantity DOUBLE PRECISION NOT NULL DEFAULT 1,
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_kits_company_id ON kits (company_id);`,
	`CREATE OR REPLACE FUNCTION set_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_towmast_updated_at') THEN
			CREATE TRIGGER trg_towmast_updated_at
				BEFORE UPDATE ON towmast
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_towdrive_updated_at') THEN
			CREATE TRIGGER trg_towdrive_updated_at
				BEFORE UPDATE ON towdrive
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_towinv_updated_at') THEN
			CREATE TRIGGER trg_towinv_updated_at
				BEFORE UPDATE ON towinv
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_kits_updated_at') THEN
			CREATE TRIGGER trg_kits_updated_at
				BEFORE UPDATE ON kits
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
