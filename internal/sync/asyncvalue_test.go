package sync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsyncValueFromValue(t *testing.T) {
	a := FromValue(69)
	require.Equal(t, 69, a.Wait())

	ch := make(chan int, 1)
	a.Notify(ch)
	require.Equal(t, 69, <-ch)
}

func TestAsyncValueNotifyBeforeSend(t *testing.T) {
	a := NewAsyncValue[int]()

	ch1 := make(chan int, 1)
	ch2 := make(chan int, 1)
	a.Notify(ch1)
	a.Notify(ch2)

	a.Send(69)

	require.Equal(t, 69, <-ch1)
	require.Equal(t, 69, <-ch2)
}

func TestAsyncValueNotifyAfterSend(t *testing.T) {
	a := NewAsyncValue[int]()
	a.Send(69)

	ch1 := make(chan int, 1)
	ch2 := make(chan int, 1)
	a.Notify(ch1)
	a.Notify(ch2)

	require.Equal(t, 69, <-ch1)
	require.Equal(t, 69, <-ch2)
}

func TestAsyncValueSecondSendDropped(t *testing.T) {
	a := NewAsyncValue[int]()
	a.Send(1)
	a.Send(2)
	require.Equal(t, 1, a.Wait())
}

func TestAsyncValueWaitBlocksUntilSend(t *testing.T) {
	a := NewAsyncValue[int]()

	var wg sync.WaitGroup
	results := make([]int, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = a.Wait()
		}(i)
	}

	a.Send(69)
	wg.Wait()

	require.Equal(t, []int{69, 69}, results)
}

func TestAsyncValueConcurrentNotifyAllReceiveSameValue(t *testing.T) {
	const n = 8
	a := NewAsyncValue[int]()

	chans := make([]chan int, n)
	var wg sync.WaitGroup
	for i := range chans {
		chans[i] = make(chan int, 1)
		wg.Add(1)
		go func(ch chan int) {
			defer wg.Done()
			a.Notify(ch)
		}(chans[i])
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.Send(7)
	}()
	wg.Wait()

	for _, ch := range chans {
		require.Equal(t, 7, <-ch)
	}
}

func TestAsyncValueTryValue(t *testing.T) {
	a := NewAsyncValue[int]()
	_, ok := a.TryValue()
	require.False(t, ok)

	a.Send(5)
	v, ok := a.TryValue()
	require.True(t, ok)
	require.Equal(t, 5, v)
}
