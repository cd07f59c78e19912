package session

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

const sessionBucket = "session"

// Storage keys, one entry per credential field. The user record is stored as
// JSON.
const (
	keyToken        = "token"
	keyRefreshToken = "refreshToken"
	keyUser         = "user"
)

// BoltPersister mirrors session credentials into a single-file bbolt
// database so they survive process restarts.
type BoltPersister struct {
	db *bolt.DB
}

var _ Persister = (*BoltPersister)(nil)

// NewBolt opens (or creates) the session database at path.
func NewBolt(path string) (*BoltPersister, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(sessionBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init session bucket: %w", err)
	}

	return &BoltPersister{db: db}, nil
}

func (p *BoltPersister) Save(c Credentials) error {
	userJSON, err := json.Marshal(c.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return p.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))
		if err := b.Put([]byte(keyToken), []byte(c.AccessToken)); err != nil {
			return err
		}
		if err := b.Put([]byte(keyRefreshToken), []byte(c.RefreshToken)); err != nil {
			return err
		}
		return b.Put([]byte(keyUser), userJSON)
	})
}

func (p *BoltPersister) SaveAccessToken(token string) error {
	return p.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put([]byte(keyToken), []byte(token))
	})
}

func (p *BoltPersister) Load() (Credentials, error) {
	var c Credentials

	err := p.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))

		c.AccessToken = string(b.Get([]byte(keyToken)))
		c.RefreshToken = string(b.Get([]byte(keyRefreshToken)))

		if raw := b.Get([]byte(keyUser)); len(raw) > 0 {
			var u User
			if err := json.Unmarshal(raw, &u); err != nil {
				return fmt.Errorf("unmarshal stored user: %w", err)
			}
			// A cleared store writes "null" for the user entry.
			if u != (User{}) {
				c.User = &u
			}
		}
		return nil
	})
	if err != nil {
		return Credentials{}, err
	}
	return c, nil
}

func (p *BoltPersister) Clear() error {
	return p.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))
		for _, key := range []string{keyToken, keyRefreshToken, keyUser} {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *BoltPersister) Close() error {
	return p.db.Close()
}
