// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the terminal interface with Bubble Tea.
//
// The update loop is the serialization point for the whole client:
// keypresses, push frames, fallback responses, and timers all arrive as
// messages handled one at a time, and all conversation state transitions
// go through the controller inside that loop. Push events are consumed
// with a re-armed wait command so they apply in arrival order.
package ui
