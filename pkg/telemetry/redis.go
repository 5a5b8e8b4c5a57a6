package telemetry

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/schemeview/pkg/errors"
)

// DefaultRedisPrefix is the key prefix of channel hashes.
const DefaultRedisPrefix = "cnl:"

// Redis hash fields of a channel.
const (
	fieldVal          = "val"
	fieldStat         = "stat"
	fieldText         = "text"
	fieldTextWithUnit = "textunit"
	fieldUnit         = "unit"
	fieldColor        = "color"
)

// RedisSource reads channel data written by the data server into redis.
// Each channel is a hash at <prefix><number> with the fields val, stat,
// text, textunit, unit and color.
type RedisSource struct {
	client *redis.Client
	prefix string
}

// RedisConfig configures a RedisSource.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisSource connects to redis and verifies the connection.
func NewRedisSource(ctx context.Context, cfg RedisConfig) (*RedisSource, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", cfg.Addr)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisSource{client: client, prefix: prefix}, nil
}

// Fetch reads the requested channel hashes in one pipeline. Without an
// explicit list it scans for every key under the prefix.
func (s *RedisSource) Fetch(ctx context.Context, cnlNums []int) (*Snapshot, error) {
	if len(cnlNums) == 0 {
		nums, err := s.scanChannels(ctx)
		if err != nil {
			return nil, err
		}
		cnlNums = nums
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(cnlNums))
	for i, n := range cnlNums {
		cmds[i] = pipe.HGetAll(ctx, s.key(n))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %d channels", len(cnlNums))
	}

	items := make([]CnlDataExt, 0, len(cnlNums))
	for i, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil {
			continue
		}
		if d, ok := parseHash(cnlNums[i], fields); ok {
			items = append(items, d.Complete())
		}
	}
	return NewSnapshot(items...), nil
}

func (s *RedisSource) scanChannels(ctx context.Context) ([]int, error) {
	var nums []int
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 256).Iterator()
	for iter.Next(ctx) {
		if n, err := strconv.Atoi(iter.Val()[len(s.prefix):]); err == nil && n > 0 {
			nums = append(nums, n)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "scan channel keys")
	}
	return nums, nil
}

// Close closes the redis client.
func (s *RedisSource) Close() error {
	return s.client.Close()
}

func (s *RedisSource) key(cnlNum int) string {
	return s.prefix + strconv.Itoa(cnlNum)
}

// parseHash converts a channel hash. A hash without a value field is not a
// channel.
func parseHash(cnlNum int, fields map[string]string) (CnlDataExt, bool) {
	raw, ok := fields[fieldVal]
	if !ok {
		return CnlDataExt{}, false
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return CnlDataExt{}, false
	}
	stat, _ := strconv.Atoi(fields[fieldStat])
	return CnlDataExt{
		CnlNum:       cnlNum,
		Val:          val,
		Stat:         stat,
		Text:         fields[fieldText],
		TextWithUnit: fields[fieldTextWithUnit],
		Unit:         fields[fieldUnit],
		Color:        fields[fieldColor],
	}, true
}

var _ Source = (*RedisSource)(nil)
