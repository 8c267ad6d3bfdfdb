/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package pgsql

import (
	"errors"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/goxep/idavoll/log"
)

var errGeneric = errors.New("pgsql: generic storage error")

// newStorageMock returns a mocked PostgreSQL storage instance.
func newStorageMock() (*pgSQLStorage, sqlmock.Sqlmock) {
	db, sqlMock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("%v", err)
	}
	return &pgSQLStorage{db: db}, sqlMock
}

func newNodesMock() (*pgSQLNodes, sqlmock.Sqlmock) {
	s, sqlMock := newStorageMock()
	return &pgSQLNodes{pgSQLStorage: s}, sqlMock
}

func newAffiliationsMock() (*pgSQLAffiliations, sqlmock.Sqlmock) {
	s, sqlMock := newStorageMock()
	return &pgSQLAffiliations{pgSQLStorage: s}, sqlMock
}

func newSubscriptionsMock() (*pgSQLSubscriptions, sqlmock.Sqlmock) {
	s, sqlMock := newStorageMock()
	return &pgSQLSubscriptions{pgSQLStorage: s}, sqlMock
}

func newItemsMock() (*pgSQLItems, sqlmock.Sqlmock) {
	s, sqlMock := newStorageMock()
	return &pgSQLItems{pgSQLStorage: s}, sqlMock
}

func newCallbacksMock() (*pgSQLCallbacks, sqlmock.Sqlmock) {
	s, sqlMock := newStorageMock()
	return &pgSQLCallbacks{pgSQLStorage: s}, sqlMock
}
