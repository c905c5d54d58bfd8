package engine

import (
	"fmt"
	"time"

	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/api"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/logger"
	"github.com/sirupsen/logrus"
)

// AddLog добавляет лог в историю инстанса
func (i *Instance) AddLog(text, logType string) {
	i.Logs = append(i.Logs, api.LogEntry{
		ID:        fmt.Sprintf("%d_%d_%d", i.ID, i.CurrentTick, time.Now().UnixNano()),
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	})
	logger.Log.WithFields(logrus.Fields{
		"instance":  i.ID,
		"component": "battle_log",
		"log_type":  logType,
		"tick":      i.CurrentTick,
	}).Info(text)
}
