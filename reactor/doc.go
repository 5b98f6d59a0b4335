// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the poll(2)-mode event loop that drives the
// control side of a bridge: one descriptor watched for input chunks and one
// self-pipe watched for shutdown, with signal delivery converted into pipe
// wakeups so the loop never races a handler.
package reactor
