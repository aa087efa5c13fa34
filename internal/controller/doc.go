// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller holds the conversation state machine.
//
// The controller is deliberately free of I/O. The UI update loop feeds it
// one event at a time, in arrival order, and reads the resulting state to
// render. Keeping the transitions pure makes every ordering property
// testable without a server, a socket, or a terminal: optimistic echo,
// the single pending-reply flag, the typing indicator, session clears,
// and the one-deep error slot are all plain method calls here.
package controller
