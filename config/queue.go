package config

import "os"

func GetQueueBackend() string {
	env := os.Getenv("QUEUE_BACKEND")
	if env != "" {
		return env
	}
	return "memory"
}

func GetRedisAddr() string {
	env := os.Getenv("REDIS_ADDR")
	if env != "" {
		return env
	}
	return "localhost:6379"
}

func GetFaceServiceURL() string {
	env := os.Getenv("FACE_SERVICE_URL")
	if env != "" {
		return env
	}
	return "http://localhost:8000"
}
