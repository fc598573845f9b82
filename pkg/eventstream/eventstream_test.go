// Copyright © 2024 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package eventstream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMulticastFansOutToAllSubscribers(t *testing.T) {
	m := NewMulticast[int](4)
	ch1, unsub1 := m.Subscribe()
	ch2, unsub2 := m.Subscribe()
	defer unsub1()
	defer unsub2()

	m.Emit(42)

	assert.Equal(t, 42, <-ch1)
	assert.Equal(t, 42, <-ch2)
}

func TestMulticastDropsOldestOnFullBuffer(t *testing.T) {
	m := NewMulticast[int](1)
	ch, unsub := m.Subscribe()
	defer unsub()

	m.Emit(1)
	m.Emit(2)

	assert.Equal(t, 2, <-ch)
}

func TestMulticastUnsubscribeClosesChannel(t *testing.T) {
	m := NewMulticast[int](1)
	ch, unsub := m.Subscribe()
	unsub()

	_, ok := <-ch
	assert.False(t, ok)
}

func TestMulticastCloseAllClosesEverySubscriber(t *testing.T) {
	m := NewMulticast[int](1)
	ch1, _ := m.Subscribe()
	ch2, _ := m.Subscribe()

	m.CloseAll()

	_, ok1 := <-ch1
	_, ok2 := <-ch2
	assert.False(t, ok1)
	assert.False(t, ok2)
}

func TestLastValueReplaysCurrentValueOnSubscribe(t *testing.T) {
	l := NewLastValue[string](1)
	l.Emit("first")

	ch, unsub := l.Subscribe()
	defer unsub()

	select {
	case v := <-ch:
		assert.Equal(t, "first", v)
	case <-time.After(time.Second):
		t.Fatal("expected replayed value")
	}

	l.Emit("second")
	select {
	case v := <-ch:
		assert.Equal(t, "second", v)
	case <-time.After(time.Second):
		t.Fatal("expected second emission")
	}
}

func TestLastValueSubscribeWithNoValueYetStreamsOnly(t *testing.T) {
	l := NewLastValue[int](1)
	ch, unsub := l.Subscribe()
	defer unsub()

	_, ok := l.Current()
	assert.False(t, ok)

	l.Emit(7)
	assert.Equal(t, 7, <-ch)
}

func TestLastValueCurrent(t *testing.T) {
	l := NewLastValue[int](1)
	_, ok := l.Current()
	require.False(t, ok)

	l.Emit(9)
	v, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, 9, v)
}
