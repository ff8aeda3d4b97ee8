/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"testing"
	"time"
)

func TestQuitWhenDone_QuitsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan struct{})
	stop := quitWhenDone(ctx, func() { close(quit) })
	defer stop()
	cancel()
	select {
	case <-quit:
	case <-time.After(2 * time.Second):
		t.Fatalf("quit not called after cancel")
	}
}

func TestQuitWhenDone_StopReleasesWatcher(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	called := make(chan struct{}, 1)
	stop := quitWhenDone(ctx, func() { called <- struct{}{} })
	stop()
	// give the watcher time to observe stop before the context ends
	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-called:
		t.Fatalf("quit called after the window closed")
	case <-time.After(50 * time.Millisecond):
	}
}
