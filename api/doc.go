// Package api defines the closed, wire-stable types shared between the
// pollnet façade and its per-socket tasks: handles, status/result enums,
// the tagged Message union, and the structured error type.
//
// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT
package api
