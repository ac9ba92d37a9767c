// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package firstunique

import "testing"

func TestDefaultConfigValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed Validate: %v", err)
	}
	if cfg.PartitionCount != 32 {
		t.Errorf("default PartitionCount = %d, want 32", cfg.PartitionCount)
	}
	if cfg.WorkerCount != 8 {
		t.Errorf("default WorkerCount = %d, want 8", cfg.WorkerCount)
	}
}

func TestNewConfigAppliesOptions(t *testing.T) {
	cfg, err := newConfig(PartitionCount(16), WorkerCount(4), TempPrefix("x-"))
	if err != nil {
		t.Fatalf("newConfig: %v", err)
	}
	if cfg.PartitionCount != 16 || cfg.WorkerCount != 4 || cfg.TempPrefix != "x-" {
		t.Errorf("newConfig did not apply options: %+v", cfg)
	}
}

func TestValidateRejectsNonDivisor(t *testing.T) {
	_, err := newConfig(PartitionCount(10), WorkerCount(3))
	if err == nil {
		t.Fatal("expected error for worker_count not dividing partition_count")
	}
}

func TestValidateRejectsZeroPartitions(t *testing.T) {
	_, err := newConfig(PartitionCount(0))
	if err == nil {
		t.Fatal("expected error for partition_count < 1")
	}
}

func TestValidateRejectsZeroWorkers(t *testing.T) {
	_, err := newConfig(WorkerCount(0))
	if err == nil {
		t.Fatal("expected error for worker_count < 1")
	}
}

func TestPartitionPath(t *testing.T) {
	cfg := defaultConfig()
	cfg.TempDir = "/tmp"
	cfg.TempPrefix = "fu-"
	if got, want := cfg.partitionPath(3), "/tmp/fu-3"; got != want {
		t.Errorf("partitionPath(3) = %q, want %q", got, want)
	}
}
