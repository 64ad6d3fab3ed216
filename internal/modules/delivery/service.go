// README: Delivery service runs the engine and manages the delivery lifecycle.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"medidrop/internal/types"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("delivery not found")
	ErrInvalidState = errors.New("invalid state transition")
	ErrConflict     = errors.New("delivery state conflict")
)

// Repository is the persistence the service needs. Store implements it on Postgres.
type Repository interface {
	Create(ctx context.Context, d *Delivery) error
	Get(ctx context.Context, id types.ID) (*Delivery, error)
	List(ctx context.Context) ([]Delivery, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, progress int) (bool, error)
}

type Processor interface {
	Process(ctx context.Context, requestText, area string) (Result, error)
}

type Service struct {
	repo   Repository
	engine Processor
	now    func() time.Time
}

func NewService(repo Repository, engine Processor) *Service {
	return &Service{repo: repo, engine: engine, now: time.Now}
}

type CreateCommand struct {
	RequestText string
	Area        string
}

type UpdateStatusCommand struct {
	ID     types.ID
	Status Status
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Delivery, error) {
	text := strings.TrimSpace(cmd.RequestText)
	area := strings.TrimSpace(cmd.Area)
	if text == "" || area == "" {
		return nil, fmt.Errorf("%w: request_text and area are required", ErrBadRequest)
	}

	res, err := s.engine.Process(ctx, text, area)
	if err != nil {
		return nil, err
	}

	d := &Delivery{
		ID:        types.ID(uuid.NewString()),
		Status:    StatusQueued,
		Progress:  0,
		CreatedAt: s.now().UTC(),
		Result:    res,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("insert delivery: %w", err)
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Delivery, error) {
	if id == "" {
		return nil, ErrBadRequest
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Delivery, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) (*Delivery, error) {
	d, err := s.repo.Get(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(d.Status, cmd.Status) {
		return nil, ErrInvalidState
	}
	progress := d.Progress
	if cmd.Status == StatusDelivered {
		progress = 100
	}
	ok, err := s.repo.UpdateStatus(ctx, d.ID, d.Status, cmd.Status, progress)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	d.Status = cmd.Status
	d.Progress = progress
	return d, nil
}
