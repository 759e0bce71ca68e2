package datasource_test

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

var driverSeq atomic.Int64

// recordingDriver counts physical connections opened and closed.
type recordingDriver struct {
	mu     sync.Mutex
	dsns   []string
	opens  int
	closes int
}

func (d *recordingDriver) Open(dsn string) (driver.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dsns = append(d.dsns, dsn)
	d.opens++
	return &recordingConn{d: d}, nil
}

func (d *recordingDriver) stats() (opens, closes int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens, d.closes
}

func (d *recordingDriver) lastDSN() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.dsns) == 0 {
		return ""
	}
	return d.dsns[len(d.dsns)-1]
}

type recordingConn struct {
	d *recordingDriver
}

func (c *recordingConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *recordingConn) Close() error {
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	c.d.closes++
	return nil
}

func (c *recordingConn) Begin() (driver.Tx, error) {
	return nil, errors.New("begin not supported")
}

// registerRecordingDriver registers a fresh driver under a unique name.
func registerRecordingDriver(t *testing.T) (string, *recordingDriver) {
	t.Helper()
	name := fmt.Sprintf("recording-%d", driverSeq.Add(1))
	drv := &recordingDriver{}
	sql.Register(name, drv)
	return name, drv
}

// errConnectorSetup is returned by connectorFailingDriver.OpenConnector.
var errConnectorSetup = errors.New("invalid sslmode")

// connectorFailingDriver is registered but cannot build a connector, like a
// driver rejecting its environment defaults.
type connectorFailingDriver struct{}

func (connectorFailingDriver) Open(string) (driver.Conn, error) {
	return nil, errConnectorSetup
}

func (connectorFailingDriver) OpenConnector(string) (driver.Connector, error) {
	return nil, errConnectorSetup
}

func registerConnectorFailingDriver(t *testing.T) string {
	t.Helper()
	name := fmt.Sprintf("connector-failing-%d", driverSeq.Add(1))
	sql.Register(name, connectorFailingDriver{})
	return name
}
