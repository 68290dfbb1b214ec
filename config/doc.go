// Package config loads SMMU construction parameters — TLB capacity and
// command/event queue depth — from the environment, optionally seeded
// from a .env file via godotenv.
package config
