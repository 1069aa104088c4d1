package cache

import "fmt"

func JobSnapshotKey(jobID string) string {
	return fmt.Sprintf("job:%s", jobID)
}

func RateLimitKey(scope, clientIP string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, clientIP)
}
