// Package service содержит бизнес-логику записи студентов на внеклассные занятия.
package service

import (
	"context"
	"errors"
	"fmt"

	"activity-signup-service/internal/model"
	"activity-signup-service/internal/repository"
)

// Операции и их исходы для метрик.
const (
	OpSignup     = "signup"
	OpUnregister = "unregister"

	OutcomeOK               = "ok"
	OutcomeActivityNotFound = "activity_not_found"
	OutcomeAlreadySignedUp  = "already_signed_up"
	OutcomeNotSignedUp      = "not_signed_up"
	OutcomeError            = "error"
)

// TransactionManager описывает интерфейс для управления транзакциями (чтобы можно было мокать).
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ActivityRepository описывает контракт каталога занятий.
type ActivityRepository interface {
	ListActivities(ctx context.Context) (map[string]model.Activity, error)
	GetActivity(ctx context.Context, name string) (model.Activity, error)
	AddParticipant(ctx context.Context, name, email string) error
	RemoveParticipant(ctx context.Context, name, email string) error
}

// Recorder получает результаты операций записи для метрик.
type Recorder interface {
	ObserveOperation(operation, outcome string)
	SetParticipants(activity string, count int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string) {}
func (nopRecorder) SetParticipants(string, int)     {}

// ActivityService инкапсулирует запись студентов на занятия и отмену записи.
// Вместимость занятия (max_participants) носит справочный характер и не проверяется.
type ActivityService struct {
	repo      ActivityRepository
	txManager TransactionManager
	recorder  Recorder
}

// NewActivityService создаёт сервис. recorder может быть nil.
func NewActivityService(repo ActivityRepository, txManager TransactionManager, recorder Recorder) *ActivityService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &ActivityService{
		repo:      repo,
		txManager: txManager,
		recorder:  recorder,
	}
}

// ListActivities возвращает все занятия вместе с текущими участниками.
func (s *ActivityService) ListActivities(ctx context.Context) (map[string]model.Activity, error) {
	activities, err := s.repo.ListActivities(ctx)
	if err != nil {
		return nil, errInternal("failed to list activities", err)
	}
	return activities, nil
}

// Signup записывает email на занятие и возвращает подтверждение.
// Проверка существования занятия, проверка на дубликат и добавление выполняются в одной транзакции.
func (s *ActivityService) Signup(ctx context.Context, activityName, email string) (string, error) {
	var participants int

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		activity, err := s.repo.GetActivity(ctx, activityName)
		if err != nil {
			return err
		}
		if activity.HasParticipant(email) {
			return ErrConflict(MsgAlreadySignedUp)
		}
		if err := s.repo.AddParticipant(ctx, activityName, email); err != nil {
			return err
		}
		participants = len(activity.Participants) + 1
		return nil
	})
	if err != nil {
		appErr := s.mapError(err, "failed to sign up")
		s.recorder.ObserveOperation(OpSignup, outcomeOf(appErr))
		return "", appErr
	}

	s.recorder.ObserveOperation(OpSignup, OutcomeOK)
	s.recorder.SetParticipants(activityName, participants)
	return fmt.Sprintf("Signed up %s for %s", email, activityName), nil
}

// Unregister удаляет email из участников занятия и возвращает подтверждение.
func (s *ActivityService) Unregister(ctx context.Context, activityName, email string) (string, error) {
	var participants int

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		activity, err := s.repo.GetActivity(ctx, activityName)
		if err != nil {
			return err
		}
		if !activity.HasParticipant(email) {
			return ErrNotFound(CodeNotSignedUp, MsgNotSignedUp)
		}
		if err := s.repo.RemoveParticipant(ctx, activityName, email); err != nil {
			return err
		}
		participants = len(activity.Participants) - 1
		return nil
	})
	if err != nil {
		appErr := s.mapError(err, "failed to unregister")
		s.recorder.ObserveOperation(OpUnregister, outcomeOf(appErr))
		return "", appErr
	}

	s.recorder.ObserveOperation(OpUnregister, OutcomeOK)
	s.recorder.SetParticipants(activityName, participants)
	return fmt.Sprintf("Unregistered %s from %s", email, activityName), nil
}

// mapError переводит ошибки репозитория в AppError.
func (s *ActivityService) mapError(err error, internalMsg string) *AppError {
	var appErr *AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, repository.ErrActivityNotFound):
		return ErrNotFound(CodeActivityNotFound, MsgActivityNotFound)
	case errors.Is(err, repository.ErrParticipantNotFound):
		return ErrNotFound(CodeNotSignedUp, MsgNotSignedUp)
	default:
		return errInternal(internalMsg, err)
	}
}

func outcomeOf(err *AppError) string {
	switch err.Code {
	case CodeActivityNotFound:
		return OutcomeActivityNotFound
	case CodeAlreadySignedUp:
		return OutcomeAlreadySignedUp
	case CodeNotSignedUp:
		return OutcomeNotSignedUp
	default:
		return OutcomeError
	}
}
