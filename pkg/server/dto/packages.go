package dto

import "strings"

// UpsertPackageRequest represents a request to add or update a package
type UpsertPackageRequest struct {
	ID          string `json:"id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	Downloads   int64  `json:"downloads,omitempty"`
}

// Validate performs validation on UpsertPackageRequest
func (r *UpsertPackageRequest) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrEmptyID
	}
	if len(r.ID) > MaxIDLength {
		return ErrIDTooLong
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if len(r.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(r.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// UpsertPackageResponse represents a response from package upserts
type UpsertPackageResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// PackageResponse represents one package row
type PackageResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Downloads   int64  `json:"downloads"`
}

// StatsResponse summarizes the indexed corpus
type StatsResponse struct {
	Packages int64 `json:"packages"`
	Embedded int64 `json:"embedded"`
	Missing  int64 `json:"missing"`
}
