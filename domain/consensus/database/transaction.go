package database

import (
	"github.com/obsidiannet/obsidiand/domain/consensus/model"
	"github.com/obsidiannet/obsidiand/infrastructure/db/database"
)

// dbTransaction is a database transaction that implements the
// model.DBTransaction interface
type dbTransaction struct {
	transaction database.Transaction
}

func (dbt *dbTransaction) Get(key model.DBKey) ([]byte, error) {
	return dbt.transaction.Get(dbKeyToDatabaseKey(key))
}

func (dbt *dbTransaction) Has(key model.DBKey) (bool, error) {
	return dbt.transaction.Has(dbKeyToDatabaseKey(key))
}

func (dbt *dbTransaction) Put(key model.DBKey, value []byte) error {
	return dbt.transaction.Put(dbKeyToDatabaseKey(key), value)
}

func (dbt *dbTransaction) Delete(key model.DBKey) error {
	return dbt.transaction.Delete(dbKeyToDatabaseKey(key))
}

func (dbt *dbTransaction) Cursor(bucket model.DBBucket) (model.DBCursor, error) {
	cursor, err := dbt.transaction.Cursor(dbBucketToDatabaseBucket(bucket))
	if err != nil {
		return nil, err
	}
	return newDBCursor(cursor), nil
}

func (dbt *dbTransaction) Rollback() error {
	return dbt.transaction.Rollback()
}

func (dbt *dbTransaction) Commit() error {
	return dbt.transaction.Commit()
}

func (dbt *dbTransaction) RollbackUnlessClosed() error {
	return dbt.transaction.RollbackUnlessClosed()
}

func newDBTransaction(transaction database.Transaction) model.DBTransaction {
	return &dbTransaction{transaction: transaction}
}
