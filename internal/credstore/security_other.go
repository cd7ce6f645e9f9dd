// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build !darwin

package credstore

import (
	"errors"

	"go.uber.org/zap"
)

// securityBackend only exists on macOS.
type securityBackend struct{}

func newSecurityBackend(*zap.Logger) (*securityBackend, error) {
	return nil, errors.New("security backend only available on macOS")
}

func (s *securityBackend) Set(string, string) error   { return errors.ErrUnsupported }
func (s *securityBackend) Get(string) (string, error) { return "", errors.ErrUnsupported }
func (s *securityBackend) Delete(string) error        { return errors.ErrUnsupported }
