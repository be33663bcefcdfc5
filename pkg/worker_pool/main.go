/*
Package worker pool
Structure to facilitate with the worker pool pattern
https://gobyexample.com/worker-pools

Usage:

	type Task struct {
		i int
	}

	func (task Task) Run(send func(string), abort func()) error {
		send(fmt.Sprintf("Processing task %d", task.i))
		time.Sleep(time.Duration(5) * time.Second)
		send(fmt.Sprintf("Processed task %d", task.i))
		return nil
	}

	func main() {
		pool := worker_pool.New(5, 40, os.Stdout)
		for i := 0; i < 40; i++ {
			pool.Add(Task{i})
		}
		pool.Start()
		<-pool.Wait()
		if err := pool.Err(); err != nil {
			fmt.Println(err)
		}
	}

Each task gets a portion of an output that gets updated while the workers are
running (using [uilive](https://github.com/gosuri/uilive)). Each invocation of
'send' will replace the portion of the output dedicated to the task.

Errors returned by tasks are collected; `Err` returns all of them once the pool
is done. Calling 'abort' will make sure the workers will not pick up any new
tasks. Tasks that are already in progress will continue.
*/

package worker_pool

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gosuri/uilive"
	"github.com/hashicorp/go-multierror"
)

type Task interface {
	Run(send func(string), abort func()) error
}

type taskContainer_t struct {
	i    int
	task Task
}

type message_t struct {
	i    int
	body string
}

type Pool struct {
	numWorkers     int
	taskChannel    chan taskContainer_t
	innerWaitGroup sync.WaitGroup
	outerWaitGroup sync.WaitGroup
	counter        int
	messages       []string
	messageChannel chan message_t
	out            io.Writer
	writer         *uilive.Writer
	aborted        atomic.Bool

	errorLock sync.Mutex
	errors    *multierror.Error
}

func New(numWorkers, numTasks int, out io.Writer) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if out == nil {
		out = os.Stdout
	}
	var pool Pool
	pool.numWorkers = numWorkers
	pool.taskChannel = make(chan taskContainer_t, numTasks)
	pool.messages = make([]string, numTasks)
	pool.messageChannel = make(chan message_t)
	pool.out = out
	return &pool
}

// Add must be called before Start, at most numTasks times
func (pool *Pool) Add(task Task) {
	pool.innerWaitGroup.Add(1)
	pool.taskChannel <- taskContainer_t{pool.counter, task}
	pool.counter += 1
}

func (pool *Pool) Start() {
	close(pool.taskChannel)
	pool.writer = uilive.New()
	pool.writer.Out = pool.out
	pool.writer.Start()
	pool.outerWaitGroup.Add(1)

	for i := 0; i < pool.numWorkers; i++ {
		go func() {
			for taskContainer := range pool.taskChannel {
				if !pool.aborted.Load() {
					i := taskContainer.i
					send := func(body string) {
						pool.messageChannel <- message_t{i, body}
					}
					err := taskContainer.task.Run(send, pool.abort)
					if err != nil {
						pool.errorLock.Lock()
						pool.errors = multierror.Append(pool.errors, err)
						pool.errorLock.Unlock()
					}
				}
				pool.innerWaitGroup.Done()
			}
		}()
	}

	waitChannel := make(chan struct{})
	go func() {
		pool.innerWaitGroup.Wait()
		waitChannel <- struct{}{}
	}()

	go func() {
		exitfor := false
		for !exitfor {
			select {
			case msg := <-pool.messageChannel:
				pool.messages[msg.i] = msg.body
				var tmpMessages []string
				for _, line := range pool.messages {
					if len(line) > 0 {
						tmpMessages = append(tmpMessages, line)
					}
				}
				fmt.Fprintln(pool.writer, strings.Join(tmpMessages, "\n"))
				pool.writer.Flush()
			case <-waitChannel:
				exitfor = true
				pool.writer.Stop()
				pool.outerWaitGroup.Done()
			}
		}
	}()
}

func (pool *Pool) abort() {
	pool.aborted.Store(true)
}

func (pool *Pool) IsAborted() bool {
	return pool.aborted.Load()
}

func (pool *Pool) Wait() <-chan struct{} {
	waitChannel := make(chan struct{}, 1)
	go func() {
		pool.outerWaitGroup.Wait()
		waitChannel <- struct{}{}
	}()
	return waitChannel
}

// Err returns the errors of all failed tasks, or nil. Call after Wait.
func (pool *Pool) Err() error {
	pool.errorLock.Lock()
	defer pool.errorLock.Unlock()
	return pool.errors.ErrorOrNil()
}
