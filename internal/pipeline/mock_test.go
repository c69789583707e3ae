package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/leadscope-jp/shop-resolver/internal/model"
)

// --- Search Mock ---

type mockSearchClient struct {
	mock.Mock
}

func (m *mockSearchClient) Search(ctx context.Context, query string, topN int) ([]string, error) {
	args := m.Called(ctx, query, topN)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Fetch Mock ---

type mockFetchClient struct {
	mock.Mock
}

func (m *mockFetchClient) Fetch(ctx context.Context, pageURL string) (*model.PageDocument, error) {
	args := m.Called(ctx, pageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PageDocument), args.Error(1)
}

func (m *mockFetchClient) FetchAll(ctx context.Context, urls []string) []model.PageDocument {
	args := m.Called(ctx, urls)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.PageDocument)
}

// --- Oracle Mock ---

type mockOracleClient struct {
	mock.Mock
}

func (m *mockOracleClient) Complete(ctx context.Context, instruction string, payload any) (string, error) {
	args := m.Called(ctx, instruction, payload)
	return args.String(0), args.Error(1)
}

// --- Registry Mock ---

type mockRegistryClient struct {
	mock.Mock
}

func (m *mockRegistryClient) Lookup(ctx context.Context, code string) (*model.RegistryRecord, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RegistryRecord), args.Error(1)
}
