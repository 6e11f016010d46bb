package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// tolerant of int / int64 / float64 / string values
func getIntFromCtx(c *gin.Context, key string) (int64, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		return int64(t), true
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getAccountAndRole(c *gin.Context) (accountID int64, roleID int) {
	if id, ok := getIntFromCtx(c, "account_id"); ok {
		accountID = id
	}
	if id, ok := getIntFromCtx(c, "role_id"); ok {
		roleID = int(id)
	}
	return
}

func queryInt(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return def
}
