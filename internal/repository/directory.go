// Package repository реализует каталог занятий, который хранится в памяти процесса.
package repository

import (
	"context"
	"sync"

	"activity-signup-service/internal/model"
)

// Directory хранит отображение «название занятия -> занятие».
// Каталог единственный владелец записей: наружу отдаются только копии.
type Directory struct {
	mu         sync.RWMutex
	activities map[string]model.Activity
}

// NewDirectory создаёт каталог из переданного набора занятий (seed копируется).
func NewDirectory(seed map[string]model.Activity) *Directory {
	d := &Directory{}
	d.activities = cloneActivities(seed)
	return d
}

// ListActivities возвращает все занятия каталога. Результат можно свободно изменять.
func (d *Directory) ListActivities(ctx context.Context) (map[string]model.Activity, error) {
	var res map[string]model.Activity
	d.read(ctx, func() {
		res = cloneActivities(d.activities)
	})
	return res, nil
}

// GetActivity возвращает занятие по точному названию.
// Если занятие не найдено, возвращает ErrActivityNotFound.
func (d *Directory) GetActivity(ctx context.Context, name string) (model.Activity, error) {
	var (
		activity model.Activity
		ok       bool
	)
	d.read(ctx, func() {
		activity, ok = d.activities[name]
		if ok {
			activity = activity.Clone()
		}
	})
	if !ok {
		return model.Activity{}, ErrActivityNotFound
	}
	return activity, nil
}

// AddParticipant добавляет email в конец списка участников.
// Дубликаты здесь не проверяются, это делает сервисный слой.
func (d *Directory) AddParticipant(ctx context.Context, name, email string) error {
	var err error
	d.write(ctx, func() {
		activity, ok := d.activities[name]
		if !ok {
			err = ErrActivityNotFound
			return
		}
		activity = activity.Clone()
		activity.Participants = append(activity.Participants, email)
		d.activities[name] = activity
	})
	return err
}

// RemoveParticipant удаляет email из списка участников, сохраняя порядок остальных.
// Возвращает ErrActivityNotFound или ErrParticipantNotFound.
func (d *Directory) RemoveParticipant(ctx context.Context, name, email string) error {
	var err error
	d.write(ctx, func() {
		activity, ok := d.activities[name]
		if !ok {
			err = ErrActivityNotFound
			return
		}
		remaining := make([]string, 0, len(activity.Participants))
		removed := false
		for _, p := range activity.Participants {
			if !removed && p == email {
				removed = true
				continue
			}
			remaining = append(remaining, p)
		}
		if !removed {
			err = ErrParticipantNotFound
			return
		}
		activity.Participants = remaining
		d.activities[name] = activity
	})
	return err
}

// Snapshot возвращает полную копию каталога, например для изоляции тестов.
func (d *Directory) Snapshot() map[string]model.Activity {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return cloneActivities(d.activities)
}

// Restore целиком заменяет содержимое каталога снимком.
func (d *Directory) Restore(snapshot map[string]model.Activity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activities = cloneActivities(snapshot)
}

// read выполняет fn под блокировкой на чтение,
// если вызывающий код ещё не держит транзакцию этого каталога.
func (d *Directory) read(ctx context.Context, fn func()) {
	if d.inTransaction(ctx) {
		fn()
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn()
}

func (d *Directory) write(ctx context.Context, fn func()) {
	if d.inTransaction(ctx) {
		fn()
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

func cloneActivities(src map[string]model.Activity) map[string]model.Activity {
	res := make(map[string]model.Activity, len(src))
	for name, a := range src {
		res[name] = a.Clone()
	}
	return res
}
