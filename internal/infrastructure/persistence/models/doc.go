// Package models contains the GORM persistence models for the syncing
// bounded context. Models are kept separate from domain entities and convert
// through ToDomain/FromDomain so GORM tags never leak into the domain layer.
package models
