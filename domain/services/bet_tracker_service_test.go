package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/entities"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/events"
	"github.com/gambizardonkick/Shuffle-Live-tracker/domain/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testWebhook = "https://discord.com/api/webhooks/1/abcdefghijklmnop"

var betTime = time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)

func newTestBetTracker(maxStored int) (*BetTrackerService, *testhelpers.MockNotificationSink, *testhelpers.RecordingPublisher) {
	sink := &testhelpers.MockNotificationSink{}
	publisher := &testhelpers.RecordingPublisher{}
	service := NewBetTrackerService(sink, publisher, BetTrackerConfig{
		AdminPassword:     "secret",
		MaxStoredBets:     maxStored,
		DefaultUser:       "TheGoobr",
		DefaultWebhookURL: testWebhook,
	}, betTime)
	return service, sink, publisher
}

func testBet(id, username string, amount, payout int64) *entities.Bet {
	return &entities.Bet{
		BetID:        id,
		Username:     username,
		Game:         "dice",
		Currency:     "USDT",
		BetAmountUSD: decimal.NewFromInt(amount),
		PayoutUSD:    decimal.NewFromInt(payout),
		Timestamp:    entities.BetTime{Time: betTime},
	}
}

func TestBetTrackerService_TrackUntrackedUser(t *testing.T) {
	t.Parallel()

	service, sink, publisher := newTestBetTracker(100)

	result, err := service.Track(context.Background(), testBet("1", "alice", 10, 0))
	require.NoError(t, err)
	assert.False(t, result.Tracked)
	assert.False(t, result.Duplicate)

	service.Wait()
	sink.AssertNotCalled(t, "NotifyBet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, []events.EventType{events.EventTypeBetTracked}, publisher.Types())
	assert.Len(t, service.Bets(0, ""), 1)
}

func TestBetTrackerService_TrackedUserNotificationIncludesBet(t *testing.T) {
	t.Parallel()

	service, sink, _ := newTestBetTracker(100)
	sink.On("NotifyBet", mock.Anything, testWebhook, mock.Anything, mock.MatchedBy(func(view *entities.StatsView) bool {
		return view.Daily.TotalBets == 1 && view.AllTime.TotalBets == 1
	})).Return(nil).Once()

	result, err := service.Track(context.Background(), testBet("1", "TheGoobr", 10, 25))
	require.NoError(t, err)
	assert.True(t, result.Tracked)

	service.Wait()
	sink.AssertExpectations(t)

	history := service.TrackedUserBets("TheGoobr")
	assert.Equal(t, 1, history.TotalBets)
	assert.Equal(t, betTime, history.TrackingSince)
}

func TestBetTrackerService_NotificationFailureIsDropped(t *testing.T) {
	t.Parallel()

	service, sink, _ := newTestBetTracker(100)
	sink.On("NotifyBet", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("429")).Once()

	_, err := service.Track(context.Background(), testBet("1", "TheGoobr", 10, 0))
	require.NoError(t, err)

	service.Wait()
	sink.AssertExpectations(t)
	assert.Len(t, service.Bets(0, "TheGoobr"), 1)
}

func TestBetTrackerService_DuplicateBetIDsAreIgnored(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestBetTracker(100)

	_, err := service.Track(context.Background(), testBet("dup", "alice", 10, 0))
	require.NoError(t, err)
	result, err := service.Track(context.Background(), testBet("dup", "alice", 10, 0))
	require.NoError(t, err)

	assert.True(t, result.Duplicate)
	assert.Len(t, service.Bets(0, ""), 1)
	assert.Equal(t, 1, service.UserStats("alice", betTime).AllTime.TotalBets)
}

func TestBetTrackerService_InvalidBet(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestBetTracker(100)
	_, err := service.Track(context.Background(), testBet("1", "  ", 10, 0))
	assert.ErrorIs(t, err, entities.ErrInvalidBet)
}

func TestBetTrackerService_TrimsOldestHalf(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestBetTracker(4)
	for i, id := range []string{"a", "b", "c", "d", "e"} {
		_, err := service.Track(context.Background(), testBet(id, "alice", int64(i+1), 0))
		require.NoError(t, err)
	}

	bets := service.Bets(0, "")
	require.Len(t, bets, 3)
	assert.Equal(t, "e", bets[0].BetID)
	assert.Equal(t, "c", bets[2].BetID)

	// stats survive trimming
	assert.Equal(t, 5, service.UserStats("alice", betTime).AllTime.TotalBets)
}

func TestBetTrackerService_BetsFiltersAndLimits(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestBetTracker(100)
	for i, username := range []string{"alice", "bob", "alice", "alice"} {
		_, err := service.Track(context.Background(), testBet(string(rune('a'+i)), username, 1, 0))
		require.NoError(t, err)
	}

	assert.Len(t, service.Bets(0, ""), 4)
	assert.Len(t, service.Bets(2, ""), 2)
	aliceBets := service.Bets(2, "alice")
	require.Len(t, aliceBets, 2)
	assert.Equal(t, "d", aliceBets[0].BetID)
	assert.Equal(t, "c", aliceBets[1].BetID)
}

func TestBetTrackerService_UsersSortedByWagered(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestBetTracker(100)
	_, _ = service.Track(context.Background(), testBet("1", "alice", 10, 0))
	_, _ = service.Track(context.Background(), testBet("2", "bob", 50, 0))
	_, _ = service.Track(context.Background(), testBet("3", "alice", 5, 30))

	users := service.Users()
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[0].Username)
	assert.Equal(t, "alice", users[1].Username)
	assert.True(t, decimal.NewFromInt(15).Equal(users[1].TotalProfitUSD))
}

func TestBetTrackerService_PeriodStats(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestBetTracker(100)
	_, _ = service.Track(context.Background(), testBet("1", "alice", 10, 0))
	_, _ = service.Track(context.Background(), testBet("2", "bob", 20, 0))

	assert.Equal(t, 2, service.PeriodStats(entities.StatsPeriodDaily, "", betTime).TotalBets)
	assert.Equal(t, 1, service.PeriodStats(entities.StatsPeriodWeekly, "bob", betTime).TotalBets)
	assert.Equal(t, 0, service.PeriodStats(entities.StatsPeriodMonthly, "nobody", betTime).TotalBets)
	assert.Equal(t, 0, service.UserStats("nobody", betTime).Daily.TotalBets)
}

func TestBetTrackerService_TrackedUserManagement(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestBetTracker(100)
	now := betTime.Add(time.Hour)

	tests := []struct {
		name     string
		password string
		username string
		webhook  string
		wantErr  error
	}{
		{name: "wrong password", password: "nope", username: "carol", webhook: testWebhook, wantErr: ErrUnauthorized},
		{name: "missing username", password: "secret", username: " ", webhook: testWebhook, wantErr: ErrUsernameRequired},
		{name: "not a discord webhook", password: "secret", username: "carol", webhook: "https://example.com/hook", wantErr: ErrInvalidWebhookURL},
		{name: "valid", password: "secret", username: "carol", webhook: testWebhook},
	}

	for _, tt := range tests {
		err := service.TrackUser(tt.password, tt.username, tt.webhook, now)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, tt.name)
		} else {
			assert.NoError(t, err, tt.name)
		}
	}

	users := service.TrackedUsers()
	require.Len(t, users, 2)
	assert.Equal(t, "TheGoobr", users[0].Username)
	assert.Equal(t, "carol", users[1].Username)
	assert.Equal(t, "***ghijklmnop", users[1].WebhookURL)
	assert.Equal(t, now, users[1].TrackingSince)

	assert.ErrorIs(t, service.UntrackUser("nope", "carol"), ErrUnauthorized)
	require.NoError(t, service.UntrackUser("secret", "carol"))
	assert.Len(t, service.TrackedUsers(), 1)

	assert.NoError(t, service.VerifyAdmin("secret"))
	assert.ErrorIs(t, service.VerifyAdmin(""), ErrUnauthorized)
}

func TestBetTrackerService_SendStats(t *testing.T) {
	t.Parallel()

	service, sink, _ := newTestBetTracker(100)
	_, _ = service.Track(context.Background(), testBet("1", "alice", 10, 0))

	sink.On("NotifyStats", mock.Anything, testWebhook, mock.MatchedBy(func(report *entities.StatsReport) bool {
		return report.Username == "" && report.Key == "2025-08-12" && report.Stats.TotalBets == 1
	})).Return(nil).Once()

	require.NoError(t, service.SendStats(context.Background(), entities.StatsPeriodDaily, "", betTime))
	assert.ErrorIs(t, service.SendStats(context.Background(), entities.StatsPeriodDaily, "alice", betTime), ErrNoWebhook)
	sink.AssertExpectations(t)
}

func TestBetTrackerService_ReportTrackedUsers(t *testing.T) {
	t.Parallel()

	service, sink, _ := newTestBetTracker(100)
	require.NoError(t, service.TrackUser("secret", "carol", testWebhook+"2", betTime))

	sink.On("NotifyStats", mock.Anything, testWebhook, mock.Anything).Return(nil).Once()
	sink.On("NotifyStats", mock.Anything, testWebhook+"2", mock.Anything).Return(errors.New("boom")).Once()

	sent := service.ReportTrackedUsers(context.Background(), entities.StatsPeriodDaily, betTime)
	assert.Equal(t, 1, sent)
	sink.AssertExpectations(t)
}
