// kenken - a KenKen puzzle solver and web service.
// Copyright (C) 2016 Aaron Kimball.
//
// Licensed under the LGPL v3.  See the LICENSE file for details

package dbprep

import (
	"os"

	"github.com/gomodule/redigo/redis"
)

// ClearCache flushes everything from the Redis cache.  Cached
// entries are rebuilt from the database on demand, and sessions
// are meant to be lost on reinitialization.
func ClearCache() error {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = os.Getenv("REDISTOGO_URL")
	}
	if url == "" {
		url = "redis://localhost:6379/"
	}
	conn, err := redis.DialURL(url)
	if err != nil {
		return err
	}
	_, err = conn.Do("FLUSHALL")
	if err != nil {
		return err
	}
	conn.Close()
	return nil
}
