package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// DB returns the transaction when set, otherwise fallback, bound to the context.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	t := c.Tx
	if t == nil {
		t = fallback
	}
	if c.Ctx == nil {
		return t.WithContext(context.Background())
	}
	return t.WithContext(c.Ctx)
}

// WithTx returns a copy bound to tx.
func (c Context) WithTx(tx *gorm.DB) Context {
	return Context{Ctx: c.Ctx, Tx: tx}
}

// Transaction runs fn inside the existing transaction when one is bound,
// otherwise inside a new transaction on fallback.
func (c Context) Transaction(fallback *gorm.DB, fn func(Context) error) error {
	if c.Tx != nil {
		return fn(c)
	}
	return c.DB(fallback).Transaction(func(tx *gorm.DB) error {
		return fn(c.WithTx(tx))
	})
}
