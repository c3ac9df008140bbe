package store

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"pickmeup-server/models"
	"pickmeup-server/utils/errors"
)

const geoKey = "users:geo"

// locationTTL bounds how long a pinged coordinate counts as resolved.
const locationTTL = 5 * time.Minute

// RedisCache backs both the session registry and the resolved-location
// layer. Location entries carry a short TTL so a stale coordinate is never
// shared; session entries live as long as the token they mirror.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) PutSession(ctx context.Context, uid, token string, ttl time.Duration) error {
	if err := c.client.Set(ctx, "session:"+uid, token, ttl).Err(); err != nil {
		return errors.Wrap(err, "CACHE_ERROR", "Failed to store session", http.StatusInternalServerError)
	}
	return nil
}

func (c *RedisCache) GetSession(ctx context.Context, uid string) (string, error) {
	token, err := c.client.Get(ctx, "session:"+uid).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "CACHE_ERROR", "Failed to read session", http.StatusInternalServerError)
	}
	return token, nil
}

func (c *RedisCache) DeleteSession(ctx context.Context, uid string) error {
	if err := c.client.Del(ctx, "session:"+uid).Err(); err != nil {
		return errors.Wrap(err, "CACHE_ERROR", "Failed to clear session", http.StatusInternalServerError)
	}
	return nil
}

func (c *RedisCache) PutLocation(ctx context.Context, uid string, coords models.Coordinates) error {
	payload, err := json.Marshal(coords)
	if err != nil {
		return errors.Wrap(err, "CACHE_ERROR", "Failed to marshal location", http.StatusInternalServerError)
	}
	if err := c.client.Set(ctx, "loc:"+uid, payload, locationTTL).Err(); err != nil {
		return errors.Wrap(err, "CACHE_ERROR", "Failed to store location", http.StatusInternalServerError)
	}
	err = c.client.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      uid,
		Longitude: coords.Longitude,
		Latitude:  coords.Latitude,
	}).Err()
	if err != nil {
		return errors.Wrap(err, "CACHE_ERROR", "Failed to update geo index", http.StatusInternalServerError)
	}
	return nil
}

func (c *RedisCache) GetLocation(ctx context.Context, uid string) (models.Coordinates, bool, error) {
	payload, err := c.client.Get(ctx, "loc:"+uid).Result()
	if err == redis.Nil {
		return models.Coordinates{}, false, nil
	}
	if err != nil {
		return models.Coordinates{}, false, errors.Wrap(err, "CACHE_ERROR", "Failed to read location", http.StatusInternalServerError)
	}
	var coords models.Coordinates
	if err := json.Unmarshal([]byte(payload), &coords); err != nil {
		return models.Coordinates{}, false, errors.Wrap(err, "CACHE_ERROR", "Malformed cached location", http.StatusInternalServerError)
	}
	return coords, true, nil
}

func (c *RedisCache) Nearby(ctx context.Context, lat, lon, radiusKM float64) ([]GeoEntry, error) {
	results, err := c.client.GeoRadius(ctx, geoKey, lon, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKM,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, errors.Wrap(err, "CACHE_ERROR", "Failed to query geo index", http.StatusInternalServerError)
	}

	entries := make([]GeoEntry, 0, len(results))
	for _, res := range results {
		entries = append(entries, GeoEntry{
			UID:    res.Name,
			Lat:    res.Latitude,
			Lon:    res.Longitude,
			DistKM: res.Dist,
		})
	}
	return entries, nil
}
