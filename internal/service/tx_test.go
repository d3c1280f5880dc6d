package service

import "context"

type testTxRepos struct {
	articles   SeedArticleRepository
	categories SeedCategoryRepository
	locks      []string
	lockErr    error
}

func (t *testTxRepos) Lock(ctx context.Context, key string) error {
	t.locks = append(t.locks, key)
	return t.lockErr
}

func (t *testTxRepos) Articles() SeedArticleRepository {
	return t.articles
}

func (t *testTxRepos) Categories() SeedCategoryRepository {
	return t.categories
}

type testTxRunner struct {
	repos  TxRepositories
	called bool
}

func (t *testTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	t.called = true
	return fn(t.repos)
}
