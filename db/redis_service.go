package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"classmap-server-go/models"
)

const (
	schoolsKey           = "schools"   // List: school IDs in file order
	schoolInfoPrefix     = "school:"   // Hash prefix: school:{id} -> id, name, coords
	schoolStudentsSuffix = ":students" // List suffix: school:{id}:students -> student names
	studentsKey          = "students"  // List: JSON encoded students in file order
)

// ErrNoDataset is returned when nothing has been published yet.
var ErrNoDataset = errors.New("no dataset published in redis")

// RedisService stores a published dataset in Redis
type RedisService struct {
	Client *redis.Client
	logger *zap.SugaredLogger
}

// NewRedisService creates a new RedisService instance
func NewRedisService(client *redis.Client, logger *zap.SugaredLogger) *RedisService {
	return &RedisService{
		Client: client,
		logger: logger,
	}
}

func getSchoolInfoKey(id int) string {
	return schoolInfoPrefix + strconv.Itoa(id)
}

func getSchoolStudentsKey(id int) string {
	return schoolInfoPrefix + strconv.Itoa(id) + schoolStudentsSuffix
}

// Ping checks the connection
func (s *RedisService) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

// PublishDataset replaces whatever dataset is stored with ds in a single transaction.
func (s *RedisService) PublishDataset(ctx context.Context, ds *models.Dataset) error {
	oldIDs, err := s.Client.LRange(ctx, schoolsKey, 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to read published schools: %w", err)
	}

	schools := ds.Schools()
	students := ds.Students()

	encoded := make([]interface{}, 0, len(students))
	for _, st := range students {
		b, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("failed to encode student %q: %w", st.Name, err)
		}
		encoded = append(encoded, string(b))
	}

	_, err = s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		stale := []string{schoolsKey, studentsKey}
		for _, raw := range oldIDs {
			id, convErr := strconv.Atoi(raw)
			if convErr != nil {
				continue
			}
			stale = append(stale, getSchoolInfoKey(id), getSchoolStudentsKey(id))
		}
		pipe.Del(ctx, stale...)

		for _, school := range schools {
			coords := ""
			if school.Coords != nil {
				b, _ := json.Marshal(school.Coords)
				coords = string(b)
			}
			pipe.RPush(ctx, schoolsKey, school.ID)
			pipe.HSet(ctx, getSchoolInfoKey(school.ID), map[string]interface{}{
				"id":     school.ID,
				"name":   school.Name,
				"coords": coords,
			})
			enrolled := ds.StudentsAt(school.ID)
			if len(enrolled) == 0 {
				continue
			}
			names := make([]interface{}, 0, len(enrolled))
			for _, st := range enrolled {
				names = append(names, st.Name)
			}
			pipe.RPush(ctx, getSchoolStudentsKey(school.ID), names...)
		}
		if len(encoded) > 0 {
			pipe.RPush(ctx, studentsKey, encoded...)
		}
		return nil
	})
	if err != nil {
		s.logger.Errorf("Error publishing dataset: %v", err)
		return fmt.Errorf("failed to publish dataset to Redis: %w", err)
	}
	s.logger.Infof("Published %d schools and %d students", len(schools), len(students))
	return nil
}

// LoadDataset rebuilds the published dataset
func (s *RedisService) LoadDataset(ctx context.Context) (*models.Dataset, error) {
	n, err := s.Client.Exists(ctx, schoolsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check published dataset: %w", err)
	}
	if n == 0 {
		return nil, ErrNoDataset
	}

	ids, err := s.Client.LRange(ctx, schoolsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get school IDs from Redis: %w", err)
	}

	schools := make([]models.School, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid school id %q in Redis: %w", raw, err)
		}
		school, err := s.GetSchoolByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if school == nil {
			return nil, fmt.Errorf("school %d is listed but has no details", id)
		}
		schools = append(schools, *school)
	}

	rows, err := s.Client.LRange(ctx, studentsKey, 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get students from Redis: %w", err)
	}
	students := make([]models.Student, 0, len(rows))
	for _, row := range rows {
		var st models.Student
		if err := json.Unmarshal([]byte(row), &st); err != nil {
			return nil, fmt.Errorf("invalid student record %q: %w", row, err)
		}
		students = append(students, st)
	}

	return models.NewDataset(students, schools), nil
}

// GetSchoolByID retrieves a published school. It returns nil when the school is not stored.
func (s *RedisService) GetSchoolByID(ctx context.Context, id int) (*models.School, error) {
	data, err := s.Client.HGetAll(ctx, getSchoolInfoKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get school %d from Redis: %w", id, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	school := &models.School{ID: id, Name: data["name"]}
	if raw := data["coords"]; raw != "" {
		var c models.LngLat
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("invalid coords for school %d: %w", id, err)
		}
		school.Coords = &c
	}
	return school, nil
}

// GetStudentNamesBySchool returns the names enrolled at a published school
func (s *RedisService) GetStudentNamesBySchool(ctx context.Context, id int) ([]string, error) {
	names, err := s.Client.LRange(ctx, getSchoolStudentsKey(id), 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get students for school %d: %w", id, err)
	}
	return names, nil
}

// InitializeRedisClient creates a client and checks the connection
func InitializeRedisClient(ctx context.Context, addr, password string, dbIndex int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       dbIndex,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}
