package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/venues_backend/config"
	"bitbucket.org/mmdatafocus/venues_backend/models"
	"bitbucket.org/mmdatafocus/venues_backend/utils"
	"bitbucket.org/mmdatafocus/venues_backend/workflow"
	"github.com/shopspring/decimal"
)

// Regression: closing the same business day twice must post envelope
// transactions and balance updates exactly once.
func TestCloseDayPostsOnceAndRejectsReplay(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "venues_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()
	models.MigrateTable()

	org, err := models.CreateOrg(ctx, &models.NewOrg{Name: "Close Day Co"})
	if err != nil {
		t.Fatalf("create org: %v", err)
	}
	venue, err := models.CreateVenue(ctx, org.ID.String(), &models.NewVenue{
		Name: "Main Street", Type: models.VenueTypeRestaurant, Timezone: "UTC",
	})
	if err != nil {
		t.Fatalf("create venue: %v", err)
	}
	venueId := venue.ID.String()

	taxes, err := models.CreateCashEnvelope(ctx, venueId, &models.NewCashEnvelope{Name: "Taxes", TargetPct: decimal.NewFromInt(10)})
	if err != nil {
		t.Fatalf("create envelope: %v", err)
	}
	growth, err := models.CreateCashEnvelope(ctx, venueId, &models.NewCashEnvelope{Name: "Growth", TargetPct: decimal.NewFromInt(8)})
	if err != nil {
		t.Fatalf("create envelope: %v", err)
	}

	if _, err := models.UpsertStaffingTarget(ctx, venueId, &models.UpsertStaffingTargetInput{
		TargetLaborPct: decimal.NewFromInt(30),
	}); err != nil {
		t.Fatalf("upsert staffing target: %v", err)
	}

	businessDate, _ := utils.ParseBusinessDate("2026-08-01")
	if err := models.UpsertDailySales(ctx, &models.DailySales{
		VenueId:      venueId,
		BusinessDate: businessDate,
		NetSales:     decimal.NewFromInt(10000),
		GrossSales:   decimal.NewFromInt(10800),
		LaborCost:    decimal.NewFromInt(3450),
		LaborHours:   decimal.NewFromInt(180),
	}); err != nil {
		t.Fatalf("upsert daily sales: %v", err)
	}

	logger := config.GetLogger()
	input := workflow.CloseDayInput{VenueId: venueId, BusinessDate: "2026-08-01"}

	result, err := workflow.ProcessCloseDay(ctx, logger, input)
	if err != nil {
		t.Fatalf("first close: %v", err)
	}
	if result.TransactionsCreated != 2 {
		t.Fatalf("expected 2 envelope transactions, got %d", result.TransactionsCreated)
	}

	if _, err := workflow.ProcessCloseDay(ctx, logger, input); !errors.Is(err, workflow.ErrDayAlreadyClosed) {
		t.Fatalf("second close expected ErrDayAlreadyClosed, got %v", err)
	}

	// Balances reflect exactly one posting: 10% and 8% of 10000.
	envelopes, err := models.ListCashEnvelopes(ctx, venueId)
	if err != nil {
		t.Fatalf("list envelopes: %v", err)
	}
	for _, e := range envelopes {
		var expected decimal.Decimal
		switch e.ID {
		case taxes.ID:
			expected = decimal.NewFromInt(1000)
		case growth.ID:
			expected = decimal.NewFromInt(800)
		default:
			t.Fatalf("unexpected envelope %d", e.ID)
		}
		if !e.CurrentBalance.Equal(expected) {
			t.Fatalf("envelope %s expected balance %s, got %s", e.Name, expected, e.CurrentBalance)
		}
	}

	transactions, err := models.ListEnvelopeTransactions(ctx, venueId, taxes.ID)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(transactions) != 1 {
		t.Fatalf("expected a single posted transaction per envelope, got %d", len(transactions))
	}

	insights, err := models.ListInsights(ctx, venueId, businessDate)
	if err != nil {
		t.Fatalf("list insights: %v", err)
	}
	if len(insights) != 3 {
		t.Fatalf("expected 3 insights for the closed day, got %d", len(insights))
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("venues-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("venues-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=venues_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
