// Package model defines shared data types used across the marketscan pipeline.
//
// Conventions:
//   - Prices: float64 implied probability (0.0-1.0)
//   - Volumes: float64 in platform-native units (contracts or dollars)
//   - IDs: string for platform market IDs, uuid.UUID for unified group IDs
package model
