package secstore

import (
	"log/slog"

	"github.com/benaskins/lockbox/internal/audit"
)

// AuditedClient wraps a Client and records every mutation, and every payload
// read, to the audit log. Logging is best-effort: a failure to log never
// fails the store operation.
type AuditedClient struct {
	inner Client
	log   *audit.Logger
	actor string
}

// NewAuditedClient wraps an existing client with audit logging.
func NewAuditedClient(inner Client, log *audit.Logger, actor string) *AuditedClient {
	return &AuditedClient{inner: inner, log: log, actor: actor}
}

func (c *AuditedClient) SupportsDataProtection() bool { return c.inner.SupportsDataProtection() }

func (c *AuditedClient) Add(attrs Query) Status {
	st := c.inner.Add(attrs)
	c.record(audit.ActionAdd, attrs, st)
	return st
}

func (c *AuditedClient) Update(match Query, attrs Query) Status {
	st := c.inner.Update(match, attrs)
	c.record(audit.ActionUpdate, match, st)
	return st
}

func (c *AuditedClient) Delete(match Query) Status {
	st := c.inner.Delete(match)
	c.record(audit.ActionDelete, match, st)
	return st
}

func (c *AuditedClient) CopyMatching(q Query) (any, Status) {
	res, st := c.inner.CopyMatching(q)
	// Existence probes and attribute enumeration are not payload reads;
	// only queries that return secret data are audited.
	if q[AttrReturnData] == true {
		c.record(audit.ActionRead, q, st)
	}
	return res, st
}

func (c *AuditedClient) record(action audit.Action, q Query, st Status) {
	service, _ := q[AttrService].(string)
	account, _ := q[AttrAccount].(string)
	err := c.log.Log(audit.Entry{
		Action:  action,
		Service: service,
		Account: account,
		Actor:   c.actor,
		Status:  int32(st),
	})
	if err != nil {
		slog.Warn("audit log write failed", "action", string(action), "error", err)
	}
}
