package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log 是全局的 logrus 实例，未调用 InitLogger 时也可以直接使用（测试里就是这样）
var Log = logrus.New()

// InitLogger 按配置初始化全局 Logger：JSON 格式，控制台输出，可选同时写入文件
func InitLogger(level, file string) error {
	// 结构化日志，方便后续接入 ELK、Loki 之类的工具
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	var out io.Writer = os.Stdout
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		// 控制台和文件各一份
		out = io.MultiWriter(os.Stdout, f)
	}
	Log.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	return nil
}
