package utils

import (
	"fmt"
	"log"
	"os"
)

type TCPAddress struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func (t TCPAddress) BindString() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

func (t TCPAddress) HTTPAddress() string {
	return fmt.Sprintf("http://%s:%d", t.Host, t.Port)
}

func (t TCPAddress) String() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

func CreateFileLogger(setAsDefault bool, name string) *log.Logger {
	fileName := fmt.Sprintf("/tmp/%s_log.txt", name)
	f, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		log.Fatalf("Failed to open/create log file: %s", fileName)
	}

	if setAsDefault {
		log.SetOutput(f)
		return log.Default()
	} else {
		return log.New(f, name, log.Ltime|log.Lshortfile)
	}
}
