// Package closer останавливает ресурсы приложения в порядке, обратном их созданию.
package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const defaultForcedTimeout = 2 * time.Second

// Func — функция остановки ресурса.
type Func func(ctx context.Context) error

type step struct {
	name string
	fn   Func
}

// Closer собирает функции остановки и выполняет их один раз.
type Closer struct {
	mu            sync.Mutex
	steps         []step
	once          sync.Once
	err           error
	forcedTimeout time.Duration
}

// NewCloser создаёт Closer. forcedTimeout — сколько ждать ресурсы, которые
// не успели закрыться до отмены контекста Close; 0 означает 2 секунды.
func NewCloser(forcedTimeout time.Duration) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует ресурс под именем, которое попадёт в текст ошибки.
func (c *Closer) Add(name string, fn Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steps = append(c.steps, step{name: name, fn: fn})
}

// Close закрывает ресурсы по одному, последний добавленный первым.
// Если ctx отменён раньше, оставшиеся закрываются параллельно с forcedTimeout.
// Повторные вызовы возвращают результат первого.
func (c *Closer) Close(ctx context.Context) error {
	c.once.Do(func() {
		c.mu.Lock()
		steps := make([]step, len(c.steps))
		copy(steps, c.steps)
		c.mu.Unlock()

		c.err = c.run(ctx, steps)
	})

	return c.err
}

func (c *Closer) run(ctx context.Context, steps []step) error {
	var errs []error

	for i := len(steps) - 1; i >= 0; i-- {
		done := make(chan error, 1)
		go func(s step) {
			done <- s.fn(ctx)
		}(steps[i])

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", steps[i].name, err))
			}
		case <-ctx.Done():
			errs = append(errs, c.force(steps[i].name, done, steps[:i])...)
			return errors.Join(errs...)
		}
	}

	return errors.Join(errs...)
}

// force дожидается уже запущенного шага pending и параллельно закрывает
// оставшиеся steps, всё вместе не дольше forcedTimeout.
func (c *Closer) force(pendingName string, pending <-chan error, steps []step) []error {
	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	add := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case err := <-pending:
			if err != nil {
				add(fmt.Errorf("%s: %w", pendingName, err))
			}
		case <-ctx.Done():
			add(fmt.Errorf("%s: %w", pendingName, ctx.Err()))
		}
	}()

	for _, s := range steps {
		wg.Add(1)
		go func(s step) {
			defer wg.Done()
			if err := s.fn(ctx); err != nil {
				add(fmt.Errorf("%s (forced): %w", s.name, err))
			}
		}(s)
	}

	wg.Wait()
	return errs
}
