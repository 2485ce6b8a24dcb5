package model

// Collection is the in-memory transaction set built up by ingestion and
// mutated by bulk tag operations. There is exactly one mutator at a time
// (the request/response model is single-writer), so no locking is done here.
type Collection struct {
	txs   []RawTransaction
	index map[string]int
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{index: make(map[string]int)}
}

// Append adds a transaction. A transaction with a known ID replaces the
// earlier copy, which makes ingestion resume-after-retry safe.
func (c *Collection) Append(tx RawTransaction) {
	if i, ok := c.index[tx.ID]; ok {
		c.txs[i] = tx
		return
	}
	c.index[tx.ID] = len(c.txs)
	c.txs = append(c.txs, tx)
}

// Get returns a transaction by ID.
func (c *Collection) Get(id string) (RawTransaction, bool) {
	i, ok := c.index[id]
	if !ok {
		return RawTransaction{}, false
	}
	return c.txs[i], true
}

// All returns the transactions in insertion order. The returned slice is
// shared; callers must not modify it.
func (c *Collection) All() []RawTransaction {
	return c.txs
}

// Len returns the number of transactions.
func (c *Collection) Len() int { return len(c.txs) }

// ReplaceTags swaps the tag list of one transaction in place. Returns false
// if the ID is unknown.
func (c *Collection) ReplaceTags(id string, tags []Tag) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.txs[i] = c.txs[i].WithTags(tags)
	return true
}
