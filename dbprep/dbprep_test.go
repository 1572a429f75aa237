// kenken - a KenKen puzzle solver and web service.
// Copyright (C) 2016 Aaron Kimball.
//
// Licensed under the LGPL v3.  See the LICENSE file for details

package dbprep

import (
	"testing"
)

// These tests need a live cache and database; skip when either
// is missing.  They also assume nothing else is using the
// database, since they migrate it up and down.
func requireStores(t *testing.T) {
	t.Helper()
	if err := ClearCache(); err != nil {
		t.Skipf("Skipping, no cache available: %v", err)
	}
	if _, err := SchemaVersion(); err != nil {
		t.Skipf("Skipping, no database available: %v", err)
	}
	if err := RemoveData(); err != nil {
		t.Fatalf("Couldn't reset database: %v", err)
	}
}

func TestClearCache(t *testing.T) {
	requireStores(t)
	if err := ClearCache(); err != nil {
		t.Errorf("Couldn't clear cache: %v", err)
	}
}

func TestSchemaUpDown(t *testing.T) {
	requireStores(t)
	if err := SchemaUp(); err != nil {
		t.Errorf("Schema up failed: %v", err)
	}
	if err := SchemaDown(); err != nil {
		t.Errorf("Schema down failed: %v", err)
	}
}

func TestSchemaDoubleUp(t *testing.T) {
	requireStores(t)
	if err := SchemaUp(); err != nil {
		t.Errorf("Schema up failed: %v", err)
	}
	if err := SchemaUp(); err != nil {
		t.Errorf("Schema 2nd up failed: %v", err)
	}
	if err := SchemaDown(); err != nil {
		t.Errorf("Schema down failed: %v", err)
	}
}

func TestSchemaDoubleDown(t *testing.T) {
	requireStores(t)
	if err := SchemaUp(); err != nil {
		t.Errorf("Schema up failed: %v", err)
	}
	if err := SchemaDown(); err != nil {
		t.Errorf("Schema down failed: %v", err)
	}
	if err := SchemaDown(); err != nil {
		t.Errorf("Schema 2nd down failed: %v", err)
	}
}

func TestDataUpDown(t *testing.T) {
	requireStores(t)
	if err := SchemaUp(); err != nil {
		t.Errorf("Schema up failed: %v", err)
	}
	if err := DataUp(); err != nil {
		t.Errorf("Data up failed: %v", err)
	}

	if err := DataDown(); err != nil {
		t.Errorf("Data down failed: %v", err)
	}
	if err := SchemaDown(); err != nil {
		t.Errorf("Schema down failed: %v", err)
	}
}

func TestDataDoubleUp(t *testing.T) {
	requireStores(t)
	if err := SchemaUp(); err != nil {
		t.Errorf("Schema up failed: %v", err)
	}
	if err := DataUp(); err != nil {
		t.Errorf("Data up failed: %v", err)
	}
	if err := DataUp(); err != nil {
		t.Errorf("Data 2nd up failed: %v", err)
	}

	if err := DataDown(); err != nil {
		t.Errorf("Data down failed: %v", err)
	}
	if err := SchemaDown(); err != nil {
		t.Errorf("Schema down failed: %v", err)
	}
}

func TestDataDoubleDown(t *testing.T) {
	requireStores(t)
	if err := SchemaUp(); err != nil {
		t.Errorf("Schema up failed: %v", err)
	}
	if err := DataUp(); err != nil {
		t.Errorf("Data up failed: %v", err)
	}

	if err := DataDown(); err != nil {
		t.Errorf("Data down failed: %v", err)
	}
	if err := DataDown(); err != nil {
		t.Errorf("Data 2nd down failed: %v", err)
	}
	if err := SchemaDown(); err != nil {
		t.Errorf("Schema down failed: %v", err)
	}
}

func TestEnsureData(t *testing.T) {
	requireStores(t)
	inVersion, err := SchemaVersion()
	if err != nil {
		t.Fatalf("Couldn't get schema inVersion: %v", err)
	}
	if inVersion != 0 {
		t.Fatalf("Starting version was not 0: %v", inVersion)
	}
	if err := EnsureData(); err != nil {
		t.Errorf("%v", err)
	}
	outVersion, err := SchemaVersion()
	if err != nil {
		t.Fatalf("Couldn't get schema outVersion: %v", err)
	}
	if inVersion == outVersion {
		t.Errorf("inVersion == outVersion: %v", inVersion)
	}
	if err := DataDown(); err != nil {
		t.Errorf("Data down failed: %v", err)
	}
	if err := SchemaDown(); err != nil {
		t.Errorf("Schema down failed: %v", err)
	}
}

func TestRemoveData(t *testing.T) {
	requireStores(t)
	if err := EnsureData(); err != nil {
		t.Fatalf("Couldn't EnsureData: %v", err)
	}
	if err := RemoveData(); err != nil {
		t.Errorf("%v", err)
	}
	outVersion, err := SchemaVersion()
	if err != nil {
		t.Fatalf("Couldn't get schema outVersion: %v", err)
	}
	if outVersion != 0 {
		t.Errorf("outVersion != 0: %v", outVersion)
	}
}

func TestReinitializeAll(t *testing.T) {
	requireStores(t)
	if err := ReinitializeAll(); err != nil {
		t.Errorf("%v", err)
	}
	outVersion, err := SchemaVersion()
	if err != nil {
		t.Fatalf("Couldn't get schema outVersion: %v", err)
	}
	if outVersion == 0 {
		t.Errorf("outVersion is still 0 after reinitialize")
	}
	if err := DataDown(); err != nil {
		t.Errorf("Data down failed: %v", err)
	}
	if err := SchemaDown(); err != nil {
		t.Errorf("Schema down failed: %v", err)
	}
}
