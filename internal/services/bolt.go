package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/MegaGrindStone/travel-web-ui/internal/models"
	bolt "go.etcd.io/bbolt"
)

var chatsBucket = []byte("chats")

// ErrChatNotFound is returned when a message operation refers to a chat that was never added.
var ErrChatNotFound = errors.New("chat not found")

// BoltDB implements the handlers' Store interface on top of a bbolt file. Chats live in a single
// bucket keyed by ID, and every chat owns a bucket holding its transcript in insertion order.
type BoltDB struct {
	db *bolt.DB
}

// NewBoltDB opens (or creates, with 0600 permissions) the database file at path and makes sure the
// chats bucket exists.
func NewBoltDB(path string) (BoltDB, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return BoltDB{}, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(chatsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return BoltDB{}, fmt.Errorf("failed to create chats bucket: %w", err)
	}

	return BoltDB{db: db}, nil
}

// Close releases the database file.
func (b BoltDB) Close() error {
	return b.db.Close()
}

func messageBucketName(chatID string) []byte {
	return []byte(fmt.Sprintf("chat-%s", chatID))
}

// Chats returns every chat, most recently added first.
func (b BoltDB) Chats(context.Context) ([]models.Chat, error) {
	var chats []models.Chat
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(chatsBucket).ForEach(func(_, v []byte) error {
			var chat models.Chat
			if err := json.Unmarshal(v, &chat); err != nil {
				return fmt.Errorf("failed to unmarshal chat: %w", err)
			}
			chats = append(chats, chat)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	slices.Reverse(chats)
	return chats, nil
}

// AddChat stores a new chat and creates its message bucket. The stored ID is prefixed with a
// zero-padded sequence number so that key order matches insertion order; the new ID is returned.
func (b BoltDB) AddChat(_ context.Context, chat models.Chat) (string, error) {
	var newID string
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(chatsBucket)

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get next sequence: %w", err)
		}
		newID = fmt.Sprintf("%010d-%s", seq, chat.ID)
		chat.ID = newID

		if _, err := tx.CreateBucketIfNotExists(messageBucketName(chat.ID)); err != nil {
			return fmt.Errorf("failed to create message bucket: %w", err)
		}

		v, err := json.Marshal(chat)
		if err != nil {
			return fmt.Errorf("failed to marshal chat: %w", err)
		}
		return bucket.Put([]byte(newID), v)
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

// Messages returns the transcript of a chat in the order the messages were added. An unknown chat
// has no messages.
func (b BoltDB) Messages(_ context.Context, chatID string) ([]models.Message, error) {
	var messages []models.Message
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(messageBucketName(chatID))
		if bucket == nil {
			return nil
		}

		return bucket.ForEach(func(_, v []byte) error {
			var message models.Message
			if err := json.Unmarshal(v, &message); err != nil {
				return fmt.Errorf("failed to unmarshal message: %w", err)
			}
			messages = append(messages, message)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// AddMessage appends a message to a chat's transcript and returns the stored message ID, built the
// same way as chat IDs.
func (b BoltDB) AddMessage(_ context.Context, chatID string, message models.Message) (string, error) {
	var newID string
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(messageBucketName(chatID))
		if bucket == nil {
			return fmt.Errorf("%w: %s", ErrChatNotFound, chatID)
		}

		seq, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to get next sequence: %w", err)
		}
		newID = fmt.Sprintf("%010d-%s", seq, message.ID)
		message.ID = newID

		v, err := json.Marshal(message)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		return bucket.Put([]byte(newID), v)
	})
	if err != nil {
		return "", err
	}
	return newID, nil
}

// UpdateMessage replaces a stored message. Unknown messages are ignored.
func (b BoltDB) UpdateMessage(_ context.Context, chatID string, message models.Message) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(messageBucketName(chatID))
		if bucket == nil {
			return fmt.Errorf("%w: %s", ErrChatNotFound, chatID)
		}
		if bucket.Get([]byte(message.ID)) == nil {
			return nil
		}

		v, err := json.Marshal(message)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		return bucket.Put([]byte(message.ID), v)
	})
}
