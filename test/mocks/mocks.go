// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/item_repository.go -destination=item_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/item_service.go -destination=item_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/photo_store.go -destination=photo_store_mock.go -package=mocks
