package bind

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/samuel/go-zookeeper/zk"

	"github.com/br-lewis/continuum/future"
)

// ZkDefaultAddr is the default address for zookeeper, adapted from the
// teacher zk package's DefaultAddr.
const ZkDefaultAddr = "127.0.0.1:2181"

// Permissions bits to be used for ACLs.
const (
	ZkPermRead   = int32(zk.PermRead)
	ZkPermWrite  = int32(zk.PermWrite)
	ZkPermCreate = int32(zk.PermCreate)
	ZkPermDelete = int32(zk.PermDelete)
	ZkPermAdmin  = int32(zk.PermAdmin)
	ZkPermAll    = int32(zk.PermAll)
)

var (
	// ErrZnodeDoesNotExist is returned if the requested znode does not exist.
	ErrZnodeDoesNotExist = zk.ErrNoNode
	// ErrZnodeAlreadyExists is returned if a given znode already exists.
	ErrZnodeAlreadyExists = zk.ErrNodeExists
)

// ZkACL defines permissions, a scheme and an ID.
type ZkACL struct {
	Perms  int32
	Scheme string
	ID     string
}

// ZkConfig defines the default parameters for zookeeper setup.
type ZkConfig struct {
	Addr      string
	BasePath  string
	Auth      *ZkSchemeAuth
	DefaultID *ZkSchemeID
	Logger    zk.Logger
}

// ZkSchemeAuth composes a scheme and auth payload.
type ZkSchemeAuth struct {
	Scheme string
	Auth   string
}

// ZkSchemeID composes a scheme and id.
type ZkSchemeID struct {
	Scheme string
	ID     string
}

// ZkClient wraps a zookeeper connection and exposes both the plain
// blocking operations (for setup/teardown code) and future-returning watch
// operations (for code that wants to react to znode changes as part of a
// continuation chain).
type ZkClient struct {
	conn   *zk.Conn
	acl    []ZkACL
	config ZkConfig
}

// NewZkClient connects to zookeeper and returns a ready client, adapted
// from the teacher zk package's New.
func NewZkClient(config ZkConfig) (*ZkClient, error) {
	if !strings.HasSuffix(config.BasePath, "/") {
		config.BasePath += "/"
	}
	if !strings.HasPrefix(config.BasePath, "/") {
		config.BasePath = "/" + config.BasePath
	}
	if config.DefaultID == nil {
		config.DefaultID = &ZkSchemeID{Scheme: "world", ID: "anyone"}
	}

	acl := []ZkACL{{Perms: ZkPermAll, Scheme: config.DefaultID.Scheme, ID: config.DefaultID.ID}}

	addr := config.Addr
	if addr == "" {
		addr = ZkDefaultAddr
	}

	var opts []func(*zk.Conn)
	if config.Logger != nil {
		opts = append(opts, func(c *zk.Conn) { c.SetLogger(config.Logger) })
	}

	conn, _, err := zk.Connect([]string{addr}, time.Second, opts...)
	if err != nil {
		return nil, fmt.Errorf("zookeeper connection failed: %s", err)
	}

	if config.Auth != nil {
		if err := conn.AddAuth(config.Auth.Scheme, []byte(config.Auth.Auth)); err != nil {
			return nil, fmt.Errorf("zookeeper rejected authentication: %s", err)
		}
	}

	c := &ZkClient{conn: conn, acl: acl, config: config}

	if config.BasePath != "" && config.BasePath != "/" {
		if err := c.createAll(config.BasePath, nil, acl); err != nil {
			c.Close()
			return nil, err
		}
	}

	return c, nil
}

// Get returns the data in the znode, blocking.
func (c *ZkClient) Get(path string) ([]byte, error) {
	body, _, err := c.conn.Get(c.nodePath(path))
	return body, err
}

// Put places the data in the znode, blocking.
func (c *ZkClient) Put(path string, value []byte) error {
	_, err := c.conn.Set(c.nodePath(path), value, -1)
	return err
}

// Create creates the znode, blocking.
func (c *ZkClient) Create(path string, value []byte, acls []ZkACL) error {
	if acls == nil {
		acls = c.acl
	}
	_, err := c.conn.Create(c.nodePath(path), value, int32(0), convertZkACL(acls))
	return err
}

// Close terminates the underlying connection.
func (c *ZkClient) Close() error {
	c.conn.Close()
	return nil
}

func (c *ZkClient) createAll(path string, value []byte, acls []ZkACL) error {
	nodes := strings.Split(path, "/")
	fullPath := ""
	for i, node := range nodes {
		if strings.TrimSpace(node) == "" {
			continue
		}
		fullPath += "/" + node
		isLast := i+1 == len(nodes)
		exists, _, _ := c.conn.Exists(fullPath)
		switch {
		case !isLast && !exists:
			if _, err := c.conn.Create(fullPath, nil, int32(0), convertZkACL(acls)); err != nil {
				return err
			}
		case isLast && !exists:
			if _, err := c.conn.Create(fullPath, value, int32(0), convertZkACL(acls)); err != nil {
				return err
			}
		case isLast && exists:
			if _, err := c.conn.Set(fullPath, value, int32(-1)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *ZkClient) nodePath(p string) string {
	return filepath.Join(c.config.BasePath, p)
}

func convertZkACL(acls []ZkACL) []zk.ACL {
	var out []zk.ACL
	for _, a := range acls {
		out = append(out, zk.ACL(a))
	}
	return out
}

// DigestACL produces a single digest-scheme ACL for a user/password pair,
// adapted from the teacher zk package's DigestACL.
func DigestACL(perms int32, user, password string) ZkACL {
	userPass := []byte(fmt.Sprintf("%s:%s", user, password))
	h := sha1.New()
	if n, err := h.Write(userPass); err != nil || n != len(userPass) {
		panic("sha1 write failed")
	}
	digest := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return ZkACL{Perms: perms, Scheme: "digest", ID: user + ":" + digest}
}

// WatchValue resolves once the znode at path next changes, with its new
// value — the future-returning counterpart of the blocking Get, built on
// github.com/samuel/go-zookeeper's GetW watch channel. Each call arms a
// single watch; to keep reacting to further changes, call WatchValue again
// from the resulting future's continuation.
func (c *ZkClient) WatchValue(path string) *future.Future[[]byte] {
	promise := future.NewPromise[[]byte]()
	full := c.nodePath(path)

	data, _, events, err := c.conn.GetW(full)
	if err != nil {
		promise.SetError(err)
		return promise.Future()
	}

	go func() {
		ev := <-events
		if ev.Err != nil {
			complete(func() { promise.SetError(ev.Err) })
			return
		}
		if ev.Type == zk.EventNodeDeleted {
			complete(func() { promise.SetError(ErrZnodeDoesNotExist) })
			return
		}
		newData, _, getErr := c.conn.Get(full)
		complete(func() {
			if getErr != nil {
				promise.SetError(getErr)
				return
			}
			promise.SetValue(newData)
		})
	}()

	_ = data // the pre-watch value; callers that want it should call Get first
	return promise.Future()
}

// WatchExists resolves to true at once if the znode at path already exists;
// otherwise it arms an ExistsW watch and resolves once the watch fires, to
// true if the event was the znode's creation and false for any other event.
func (c *ZkClient) WatchExists(path string) *future.Future[bool] {
	promise := future.NewPromise[bool]()
	full := c.nodePath(path)

	exists, _, events, err := c.conn.ExistsW(full)
	if err != nil {
		promise.SetError(err)
		return promise.Future()
	}
	if exists {
		promise.SetValue(true)
		return promise.Future()
	}

	go func() {
		ev := <-events
		complete(func() {
			if ev.Err != nil {
				promise.SetError(ev.Err)
				return
			}
			promise.SetValue(ev.Type == zk.EventNodeCreated)
		})
	}()

	return promise.Future()
}
