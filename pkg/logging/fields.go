package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Field helpers for the import pipeline

func JobID(id string) Field {
	return String("job_id", id)
}

func Worker(id int) Field {
	return Int("worker", id)
}

func Phase(name string) Field {
	return String("phase", name)
}

func Labels(n int) Field {
	return Int("labels", n)
}

func Nodes(n int64) Field {
	return Int64("nodes", n)
}

func PropertyKeys(n int) Field {
	return Int("property_keys", n)
}

func StrategyName(name string) Field {
	return String("strategy", name)
}

func BytesCount(n int64) Field {
	return Int64("bytes", n)
}
