package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/gomodule/redigo/redis"

	"linkgate-go/constant"
)

const testRedisAddr = "127.0.0.1:6379"

// 依赖本机 Redis 的集成测试，环境里没有就跳过
func dialTestRedis(t *testing.T) redis.Conn {
	t.Helper()
	conn, err := redis.Dial("tcp", testRedisAddr, redis.DialConnectTimeout(500*time.Millisecond))
	if err != nil {
		t.Skipf("redis not available at %s: %v", testRedisAddr, err)
	}
	return conn
}

func TestRecordAndReadTraffic(t *testing.T) {
	conn := dialTestRedis(t)
	defer conn.Close()

	linkKey := constant.LinkKey("lg.test", fmt.Sprintf("itest-%d", time.Now().UnixNano()))
	date := constant.GetDateKey()

	RecordDailyPV(conn, linkKey)
	RecordDailyPV(conn, linkKey)
	RecordDailyUV(conn, linkKey, "203.0.113.7")
	RecordDailyUV(conn, linkKey, "203.0.113.7") // 同一 IP 不重复计
	RecordDailyUV(conn, linkKey, "203.0.113.8")
	RecordTotalPV(conn, linkKey)
	RecordTotalUV(conn, linkKey, "203.0.113.7")

	pv, err := GetDailyPv(conn, linkKey, date)
	if err != nil {
		t.Fatalf("GetDailyPv: %v", err)
	}
	if pv != 2 {
		t.Errorf("daily pv = %d, want 2", pv)
	}

	uv, err := GetDailyUv(conn, linkKey, date)
	if err != nil {
		t.Fatalf("GetDailyUv: %v", err)
	}
	if uv != 2 {
		t.Errorf("daily uv = %d, want 2", uv)
	}

	// 收尾清理测试键
	conn.Do("HDEL", constant.GetDailyPVKey(date), linkKey)
	conn.Do("DEL", constant.GetDailyUVKey(linkKey, date))
	conn.Do("DEL", constant.GetTotalPVKey(linkKey))
	conn.Do("DEL", constant.GetTotalUVKey(linkKey))
}
