package config

import (
	"os"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

func NewFiberApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:     "attendance",
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})
}

func GetFiberHttpPort() string {
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	return port
}

func GetFiberListenAddress() string {
	return ":" + GetFiberHttpPort()
}
