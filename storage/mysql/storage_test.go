/*
 * Copyright (c) 2026 The idavoll authors.
 * See the LICENSE file for more information.
 */

package mysql

import (
	"errors"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/goxep/idavoll/log"
)

var errGeneric = errors.New("mysql: generic storage error")

// newStorageMock returns a mocked MySQL storage instance.
func newStorageMock() (*mySQLStorage, sqlmock.Sqlmock) {
	db, sqlMock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("%v", err)
	}
	return &mySQLStorage{db: db}, sqlMock
}

func newNodesMock() (*mySQLNodes, sqlmock.Sqlmock) {
	s, sqlMock := newStorageMock()
	return &mySQLNodes{mySQLStorage: s}, sqlMock
}

func newSubscriptionsMock() (*mySQLSubscriptions, sqlmock.Sqlmock) {
	s, sqlMock := newStorageMock()
	return &mySQLSubscriptions{mySQLStorage: s}, sqlMock
}

func newItemsMock() (*mySQLItems, sqlmock.Sqlmock) {
	s, sqlMock := newStorageMock()
	return &mySQLItems{mySQLStorage: s}, sqlMock
}
