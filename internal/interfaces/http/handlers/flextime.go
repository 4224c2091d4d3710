package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FlexTime 接受 ISO8601 字符串或 epoch 数字两种时间戳写法。
// 客户端五花八门, 两种都有人发。
type FlexTime struct {
	time.Time
}

// UnmarshalJSON 实现 json.Unmarshaler
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		str := strings.Trim(s, `"`)
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if parsed, err := time.Parse(layout, str); err == nil {
				t.Time = parsed
				return nil
			}
		}
		// 有客户端把 epoch 当字符串发
		if n, err := strconv.ParseInt(str, 10, 64); err == nil {
			t.Time = fromEpoch(n)
			return nil
		}
		return fmt.Errorf("unrecognized timestamp: %s", str)
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// 小数秒
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("unrecognized timestamp: %s", s)
		}
		t.Time = time.Unix(int64(f), 0)
		return nil
	}
	t.Time = fromEpoch(n)
	return nil
}

// fromEpoch 区分秒和毫秒 (毫秒级 epoch 早已超过 1e12)
func fromEpoch(n int64) time.Time {
	if n > 1e12 {
		return time.UnixMilli(n)
	}
	return time.Unix(n, 0)
}
