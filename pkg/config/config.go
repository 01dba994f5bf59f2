package config

import (
	"log"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

type Config struct {
	Service  ServiceConfig  `mapstructure:"service"`
	Mysql    MysqlConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Consul   ConsulConfig   `mapstructure:"consul"`
	Jwt      JwtConfig      `mapstructure:"jwt"`
	Jaeger   JaegerConfig   `mapstructure:"jaeger"`
	Rabbitmq RabbitmqConfig `mapstructure:"rabbitmq"`
	Elastic  ElasticConfig  `mapstructure:"elastic"`
	Media    MediaConfig    `mapstructure:"media"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

type ServiceConfig struct {
	Name string `mapstructure:"name"`
	Port int    `mapstructure:"port"`
}

type MysqlConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"dbname"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	Db       int    `mapstructure:"db"`
}

// ConsulConfig Address 为空则不注册服务
type ConsulConfig struct {
	Address string `mapstructure:"address"`
}

type JwtConfig struct {
	Secret string `mapstructure:"secret"`
}

// JaegerConfig OTLP HTTP 地址 (通常是 host:4318)，为空则不开启链路追踪
type JaegerConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

// RabbitmqConfig Url 为空则不发布订单事件
type RabbitmqConfig struct {
	Url      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

// ElasticConfig Address 为空则商品搜索退化为数据库 LIKE
type ElasticConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
}

// MediaConfig 上传图片的本地存储目录和对外访问前缀
type MediaConfig struct {
	Dir     string `mapstructure:"dir"`
	BaseUrl string `mapstructure:"base_url"`
}

// AdminConfig 首次启动时种子的员工账号
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// LoadConfig 读取配置文件
func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// 环境变量覆盖，方便 Docker 部署
	if v := os.Getenv("SERVICE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Service.Port = p
		}
	}
	if v := os.Getenv("MYSQL_HOST"); v != "" {
		config.Mysql.Host = v
	}
	if v := os.Getenv("MYSQL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Mysql.Port = p
		}
	}
	if v := os.Getenv("MYSQL_USER"); v != "" {
		config.Mysql.User = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		config.Mysql.Password = v
	}
	if v := os.Getenv("MYSQL_DBNAME"); v != "" {
		config.Mysql.DbName = v
	}
	if v := os.Getenv("REDIS_ADDRESS"); v != "" {
		config.Redis.Address = v
	}
	if v := os.Getenv("CONSUL_ADDRESS"); v != "" {
		config.Consul.Address = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.Jwt.Secret = v
	}
	if v := os.Getenv("JAEGER_HOST"); v != "" {
		config.Jaeger.Endpoint = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		config.Rabbitmq.Url = v
	}
	if v := os.Getenv("ELASTIC_ADDRESS"); v != "" {
		config.Elastic.Address = v
	}

	log.Printf("Config loaded successfully from %s", path)
	return &config, nil
}
