/*
 * Copyright 2026 Nile Network Navigator Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads service configuration from JSON files.
package config

import (
	"context"
)

// Loader loads configuration from a source path into dst.
type Loader interface {
	Load(ctx context.Context, path string, dst interface{}) error
}

// Validator is implemented by configuration structs that can check
// themselves after loading.
type Validator interface {
	Validate() error
}

// Config holds the configuration loading dependencies.
type Config struct {
	loader Loader
}

// NewConfig initializes a Config with the default file loader.
func NewConfig() *Config {
	return &Config{loader: &FileLoader{}}
}

// LoadAndValidate loads a configuration and validates it if the target
// implements Validator.
func (c *Config) LoadAndValidate(ctx context.Context, path string, dst interface{}) error {
	if err := c.loader.Load(ctx, path, dst); err != nil {
		return err
	}

	if v, ok := dst.(Validator); ok {
		return v.Validate()
	}

	return nil
}
