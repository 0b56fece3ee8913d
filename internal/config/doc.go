// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// agentify client.
//
// Configuration lives at ~/.agentify/config.toml, with AGENTIFY_*
// environment variables taking precedence and built-in defaults filling
// the rest. See Config for the full schema.
package config
