package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Redis configuration (verification sessions)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Pricing policy
	ServiceFeeRate decimal.Decimal
	Currency       string

	// Cancellation refund policy
	RefundTiers RefundSchedule

	// Verification codes
	VerificationCodeLength int
	VerificationCodeTTL    time.Duration

	// Timeouts
	ChargeTimeout       time.Duration
	PendingSweepEvery   time.Duration
	PendingAbandonAfter time.Duration

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Monitoring
	EnableMetrics bool
}

// RefundTier maps a minimum lead time (whole days before check-in) to the
// refund percentage granted at or above that lead time.
type RefundTier struct {
	MinLeadDays int
	Percent     int
}

type RefundSchedule []RefundTier

// PercentFor returns the refund percentage for the given lead time.
// Tiers are kept sorted by MinLeadDays descending; the first tier whose
// threshold the lead time meets wins. Negative lead times refund nothing.
func (s RefundSchedule) PercentFor(leadDays int) int {
	for _, tier := range s {
		if leadDays >= tier.MinLeadDays {
			return tier.Percent
		}
	}
	return 0
}

// ParseRefundSchedule parses "14:100,7:50,0:0" into a schedule and rejects
// schedules whose percentages increase as lead time shrinks.
func ParseRefundSchedule(raw string) (RefundSchedule, error) {
	parts := strings.Split(raw, ",")
	schedule := make(RefundSchedule, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("refund tier %q: want minDays:percent", part)
		}
		days, err := strconv.Atoi(strings.TrimSpace(kv[0]))
		if err != nil {
			return nil, fmt.Errorf("refund tier %q: bad lead days: %w", part, err)
		}
		pct, err := strconv.Atoi(strings.TrimSpace(kv[1]))
		if err != nil {
			return nil, fmt.Errorf("refund tier %q: bad percent: %w", part, err)
		}
		if pct < 0 || pct > 100 {
			return nil, fmt.Errorf("refund tier %q: percent out of range", part)
		}
		schedule = append(schedule, RefundTier{MinLeadDays: days, Percent: pct})
	}
	if len(schedule) == 0 {
		return nil, fmt.Errorf("refund schedule is empty")
	}

	sort.Slice(schedule, func(i, j int) bool {
		return schedule[i].MinLeadDays > schedule[j].MinLeadDays
	})
	for i := 1; i < len(schedule); i++ {
		if schedule[i].Percent > schedule[i-1].Percent {
			return nil, fmt.Errorf("refund schedule not monotonic: %d%% at %d days exceeds %d%% at %d days",
				schedule[i].Percent, schedule[i].MinLeadDays,
				schedule[i-1].Percent, schedule[i-1].MinLeadDays)
		}
	}
	return schedule, nil
}

func LoadConfig() (*Config, error) {
	feeRate, err := decimal.NewFromString(getEnv("SERVICE_FEE_RATE", "0.10"))
	if err != nil {
		return nil, fmt.Errorf("SERVICE_FEE_RATE: %w", err)
	}
	if feeRate.IsNegative() {
		return nil, fmt.Errorf("SERVICE_FEE_RATE must not be negative")
	}

	tiers, err := ParseRefundSchedule(getEnv("REFUND_TIERS", "14:100,7:50,0:0"))
	if err != nil {
		return nil, fmt.Errorf("REFUND_TIERS: %w", err)
	}

	return &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Pricing
		ServiceFeeRate: feeRate,
		Currency:       getEnv("CURRENCY", "USD"),

		// Refunds
		RefundTiers: tiers,

		// Verification
		VerificationCodeLength: getEnvAsInt("VERIFICATION_CODE_LENGTH", 6),
		VerificationCodeTTL:    getEnvAsDuration("VERIFICATION_CODE_TTL", "15m"),

		// Timeouts
		ChargeTimeout:       getEnvAsDuration("CHARGE_TIMEOUT", "90s"),
		PendingSweepEvery:   getEnvAsDuration("PENDING_SWEEP_INTERVAL", "2m"),
		PendingAbandonAfter: getEnvAsDuration("PENDING_ABANDON_AFTER", "10m"),

		// Auth
		JWTSecret: getEnv("JWT_SECRET", "marina-dev-secret"),
		TokenTTL:  getEnvAsDuration("TOKEN_TTL", "24h"),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if duration, err := time.ParseDuration(getEnv(key, defaultValue)); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
