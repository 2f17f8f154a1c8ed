package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestBenchmark_LargeScaleShow は大規模上映回でのパフォーマンスを計測する
// 5000席の上映回での空席カウント、並行予約、競合予約の性能を実証する
func TestBenchmark_LargeScaleShow(t *testing.T) {
	if testing.Short() {
		t.Skip("大規模ベンチマークテストはshortモードではスキップ")
	}

	bookingService, showService, movieService, cleanup := setupIntegrationEnv(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("5000席ベンチマーク", func(t *testing.T) {
		const totalSeats = 5000

		m, err := movieService.CreateMovie(ctx, "大規模上映ベンチマーク", 180)
		require.NoError(t, err)
		sh, err := showService.CreateShow(ctx, m.ID, "IMAXシアター", time.Now().Add(30*24*time.Hour), totalSeats)
		require.NoError(t, err)

		// 1. 空席数カウントのパフォーマンス
		startCount := time.Now()
		count, err := showService.CountAvailableSeats(ctx, sh)
		require.NoError(t, err)
		require.Equal(t, totalSeats, count)
		t.Logf("空席数カウント: %v (COUNT: %d)", time.Since(startCount), count)

		// 2. 並行予約パフォーマンス（500人が同時に異なる座席を予約）
		const concurrentUsers = 500
		var successCount int32
		var errorCount int32
		var wg sync.WaitGroup

		startReserve := time.Now()
		for i := 0; i < concurrentUsers; i++ {
			wg.Add(1)
			go func(userNum int) {
				defer wg.Done()
				_, err := bookingService.Reserve(ctx, ReserveInput{
					ShowID:     sh.ID,
					UserID:     fmt.Sprintf("user-%04d", userNum),
					SeatNumber: userNum + 1,
				})
				if err == nil {
					atomic.AddInt32(&successCount, 1)
				} else {
					atomic.AddInt32(&errorCount, 1)
				}
			}(i)
		}
		wg.Wait()

		reserveDuration := time.Since(startReserve)
		reserveRate := float64(successCount) / reserveDuration.Seconds()
		t.Logf("並行予約完了: %v (成功: %d, エラー: %d, %.0f 予約/秒)",
			reserveDuration, successCount, errorCount, reserveRate)
		require.Equal(t, int32(concurrentUsers), successCount, "異なる座席への予約は全て成功するべき")

		// 3. 同一座席への競合予約（100人が同じ座席を予約）
		const competingUsers = 100
		targetSeat := totalSeats / 2
		var competitionSuccess int32
		var competitionConflict int32

		startCompete := time.Now()
		var wg2 sync.WaitGroup
		for i := 0; i < competingUsers; i++ {
			wg2.Add(1)
			go func(userNum int) {
				defer wg2.Done()
				_, err := bookingService.Reserve(ctx, ReserveInput{
					ShowID:     sh.ID,
					UserID:     fmt.Sprintf("compete-user-%03d", userNum),
					SeatNumber: targetSeat,
				})
				if err == nil {
					atomic.AddInt32(&competitionSuccess, 1)
				} else {
					atomic.AddInt32(&competitionConflict, 1)
				}
			}(i)
		}
		wg2.Wait()
		t.Logf("競合予約完了: %v (成功: %d, 競合: %d)",
			time.Since(startCompete), competitionSuccess, competitionConflict)

		require.Equal(t, int32(1), competitionSuccess, "競合予約では1人だけ成功するべき")
		require.Equal(t, int32(competingUsers-1), competitionConflict, "残りは全て失敗するべき")

		// 4. 予約後の空席数確認
		count, err = showService.CountAvailableSeats(ctx, sh)
		require.NoError(t, err)
		require.Equal(t, totalSeats-concurrentUsers-1, count)
	})
}

// BenchmarkReserve はインメモリ実装で予約処理のオーバーヘッドを計測する
func BenchmarkReserve(b *testing.B) {
	env := setupScenarioEnv()
	ctx := context.Background()
	sh := env.addShow(1 << 30)

	b.Run("異なる座席への逐次予約", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, err := env.bookingService.Reserve(ctx, ReserveInput{
				ShowID:     sh.ID,
				UserID:     fmt.Sprintf("user-%d", i),
				SeatNumber: i + 1,
			})
			if err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkCountAvailableSeats(b *testing.B) {
	env := setupScenarioEnv()
	ctx := context.Background()
	sh := env.addShow(500)

	for i := 0; i < 100; i++ {
		_, err := env.bookingService.Reserve(ctx, ReserveInput{
			ShowID:     sh.ID,
			UserID:     fmt.Sprintf("user-%d", i),
			SeatNumber: i + 1,
		})
		if err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := env.showService.CountAvailableSeats(ctx, sh); err != nil {
			b.Fatal(err)
		}
	}
}
