package service

import (
	"context"
	"errors"
	"sync"

	"golang-fundamental-bias/internal/bias/dto"
	"golang-fundamental-bias/internal/entity"
)

type fakeRunRepo struct {
	mu        sync.Mutex
	runs      map[string]entity.BiasRun
	createErr error
	updates   int
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: map[string]entity.BiasRun{}}
}

func (f *fakeRunRepo) Create(_ context.Context, run *entity.BiasRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.runs[run.RunID] = *run
	return nil
}

func (f *fakeRunRepo) Update(_ context.Context, run *entity.BiasRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.runs[run.RunID] = *run
	return nil
}

func (f *fakeRunRepo) FindByRunID(_ context.Context, runID string) (*entity.BiasRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[runID]
	if !ok {
		return nil, dto.ErrNotFound
	}
	return &run, nil
}

func (f *fakeRunRepo) FindRecent(_ context.Context, limit int) ([]entity.BiasRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.BiasRun, 0, len(f.runs))
	for _, run := range f.runs {
		if len(out) == limit {
			break
		}
		out = append(out, run)
	}
	return out, nil
}

type fakePublisher struct {
	requests []dto.RunRequest
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, req dto.RunRequest) error {
	if f.err != nil {
		return f.err
	}
	f.requests = append(f.requests, req)
	return nil
}

type fakeStrategy struct {
	mode    entity.RunMode
	outcome dto.RunOutcome
	err     error
	runIDs  []string
}

func (f *fakeStrategy) GetType() entity.RunMode { return f.mode }

func (f *fakeStrategy) Execute(_ context.Context, req dto.RunRequest) (dto.RunOutcome, error) {
	f.runIDs = append(f.runIDs, req.RunID)
	return f.outcome, f.err
}

var errBoom = errors.New("boom")
