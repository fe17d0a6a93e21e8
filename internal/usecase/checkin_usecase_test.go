package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"kyomeguri-backend/internal/domain/model"
	"kyomeguri-backend/internal/domain/repository"
	"kyomeguri-backend/internal/domain/service"
	repoImpl "kyomeguri-backend/internal/repository"
)

// テスト用座標
var (
	kiyomizudera   = model.LatLng{Lat: 34.994856, Lng: 135.785046}
	kiyomizuMonzen = model.LatLng{Lat: 34.995000, Lng: 135.785100} // 清水寺から約17m
	yasakajinja    = model.LatLng{Lat: 35.003662, Lng: 135.778492} // 清水寺から約1.1km
	ginkakuji      = model.LatLng{Lat: 35.026889, Lng: 135.798254}
)

type checkinFixture struct {
	useCase      CheckinUseCase
	visitsRepo   repository.VisitsRepository
	sessionsRepo repository.CheckinSessionRepository
}

func newCheckinFixture(testMode bool) *checkinFixture {
	visitsRepo := repoImpl.NewMemoryVisitsRepository()
	sessionsRepo := repoImpl.NewMemoryCheckinSessionRepository()
	authorizer := service.NewLocationAuthorizer(service.LocationAuthorizerOptions{
		DefaultRadiusMeters: 100,
		Timeout:             10 * time.Second,
		TestMode:            testMode,
		TestLocation:        kiyomizudera,
	})
	spotsRepo := repoImpl.NewMemorySpotsRepository(repoImpl.DefaultKyotoSpots())

	return &checkinFixture{
		useCase:      NewCheckinUseCase(spotsRepo, visitsRepo, sessionsRepo, authorizer, 10),
		visitsRepo:   visitsRepo,
		sessionsRepo: sessionsRepo,
	}
}

func reportAt(p model.LatLng) *model.LocationReport {
	return &model.LocationReport{
		Location: &model.Location{Latitude: p.Lat, Longitude: p.Lng},
	}
}

func assertCheckinError(t *testing.T, err error, code model.CheckinFailureCode) *model.CheckinError {
	t.Helper()
	var checkinErr *model.CheckinError
	if !errors.As(err, &checkinErr) {
		t.Fatalf("CheckinErrorではありません: %v", err)
	}
	if checkinErr.Code != code {
		t.Fatalf("失敗区分が不正: %s (期待: %s)", checkinErr.Code, code)
	}
	return checkinErr
}

func TestCheckIn(t *testing.T) {
	ctx := context.Background()

	t.Run("圏内の報告でチェックイン成立しコインが付与される", func(t *testing.T) {
		f := newCheckinFixture(false)

		resp, err := f.useCase.CheckIn(ctx, "user1", "spot_kiyomizudera", reportAt(kiyomizuMonzen))
		if err != nil {
			t.Fatalf("チェックインに失敗: %v", err)
		}

		if resp.Status != "checked_in" {
			t.Errorf("ステータスが不正: %s", resp.Status)
		}
		// 清水寺の個別報酬は15コイン
		if resp.CoinsAwarded != 15 || resp.TotalCoins != 15 {
			t.Errorf("コイン付与が不正: awarded=%d, total=%d", resp.CoinsAwarded, resp.TotalCoins)
		}
		if resp.Visit == nil || resp.Visit.SpotName != "清水寺" {
			t.Errorf("訪問記録が不正: %+v", resp.Visit)
		}

		visited, err := f.visitsRepo.HasVisited(ctx, "user1", "spot_kiyomizudera")
		if err != nil || !visited {
			t.Errorf("訪問記録が保存されていません: visited=%t, err=%v", visited, err)
		}
	})

	t.Run("個別報酬のないスポットは既定の10コイン", func(t *testing.T) {
		f := newCheckinFixture(false)

		resp, err := f.useCase.CheckIn(ctx, "user1", "spot_ginkakuji", reportAt(ginkakuji))
		if err != nil {
			t.Fatalf("チェックインに失敗: %v", err)
		}
		if resp.CoinsAwarded != 10 {
			t.Errorf("既定コインが適用されていません: %d", resp.CoinsAwarded)
		}
	})

	t.Run("複数スポットでコイン残高が積み上がる", func(t *testing.T) {
		f := newCheckinFixture(false)

		if _, err := f.useCase.CheckIn(ctx, "user1", "spot_kiyomizudera", reportAt(kiyomizuMonzen)); err != nil {
			t.Fatalf("1件目のチェックインに失敗: %v", err)
		}
		resp, err := f.useCase.CheckIn(ctx, "user1", "spot_ginkakuji", reportAt(ginkakuji))
		if err != nil {
			t.Fatalf("2件目のチェックインに失敗: %v", err)
		}

		// 15 + 10
		if resp.TotalCoins != 25 {
			t.Errorf("コイン残高が不正: %d", resp.TotalCoins)
		}
	})

	t.Run("同一スポットへの再チェックインはalready_visited", func(t *testing.T) {
		f := newCheckinFixture(false)

		if _, err := f.useCase.CheckIn(ctx, "user1", "spot_kiyomizudera", reportAt(kiyomizuMonzen)); err != nil {
			t.Fatalf("初回チェックインに失敗: %v", err)
		}

		_, err := f.useCase.CheckIn(ctx, "user1", "spot_kiyomizudera", reportAt(kiyomizuMonzen))
		assertCheckinError(t, err, model.CheckinFailureAlreadyVisited)

		// コインは二重付与されない
		wallet, err := f.visitsRepo.GetWallet(ctx, "user1")
		if err != nil {
			t.Fatalf("残高取得に失敗: %v", err)
		}
		if wallet.Coins != 15 || wallet.CheckinCount != 1 {
			t.Errorf("二重付与が発生しています: coins=%d, count=%d", wallet.Coins, wallet.CheckinCount)
		}
	})

	t.Run("別ユーザーは同じスポットにチェックインできる", func(t *testing.T) {
		f := newCheckinFixture(false)

		if _, err := f.useCase.CheckIn(ctx, "user1", "spot_kiyomizudera", reportAt(kiyomizuMonzen)); err != nil {
			t.Fatalf("user1のチェックインに失敗: %v", err)
		}
		if _, err := f.useCase.CheckIn(ctx, "user2", "spot_kiyomizudera", reportAt(kiyomizuMonzen)); err != nil {
			t.Errorf("user2のチェックインに失敗: %v", err)
		}
	})

	t.Run("圏外の報告はout_of_rangeで距離情報を含む", func(t *testing.T) {
		f := newCheckinFixture(false)

		_, err := f.useCase.CheckIn(ctx, "user1", "spot_kiyomizudera", reportAt(yasakajinja))
		checkinErr := assertCheckinError(t, err, model.CheckinFailureOutOfRange)

		if checkinErr.DistanceMeters < 1000 || checkinErr.DistanceMeters > 1300 {
			t.Errorf("距離が想定範囲外: %.1fm", checkinErr.DistanceMeters)
		}
		if checkinErr.AllowedRadiusMeters != 100 {
			t.Errorf("許容半径が不正: %.1fm", checkinErr.AllowedRadiusMeters)
		}
		if !strings.Contains(checkinErr.Message, "圏外") {
			t.Errorf("メッセージが不正: %s", checkinErr.Message)
		}
	})

	t.Run("端末の位置情報エラーは対応する失敗区分になる", func(t *testing.T) {
		f := newCheckinFixture(false)

		_, err := f.useCase.CheckIn(ctx, "user1", "spot_kiyomizudera",
			&model.LocationReport{ErrorCode: model.GeolocationPermissionDenied})
		assertCheckinError(t, err, model.CheckinFailurePermissionDenied)

		_, err = f.useCase.CheckIn(ctx, "user1", "spot_kiyomizudera",
			&model.LocationReport{ErrorCode: model.GeolocationTimeout})
		assertCheckinError(t, err, model.CheckinFailureTimeout)

		_, err = f.useCase.CheckIn(ctx, "user1", "spot_kiyomizudera",
			&model.LocationReport{ErrorCode: model.GeolocationPositionUnavailable})
		assertCheckinError(t, err, model.CheckinFailurePositionUnavailable)
	})

	t.Run("存在しないスポットはspot_not_found", func(t *testing.T) {
		f := newCheckinFixture(false)

		_, err := f.useCase.CheckIn(ctx, "user1", "spot_nonexistent", reportAt(kiyomizuMonzen))
		assertCheckinError(t, err, model.CheckinFailureSpotNotFound)
	})

	t.Run("テストモードは報告内容に関わらず成立する", func(t *testing.T) {
		f := newCheckinFixture(true)

		resp, err := f.useCase.CheckIn(ctx, "user1", "spot_kiyomizudera",
			&model.LocationReport{ErrorCode: model.GeolocationPermissionDenied})
		if err != nil {
			t.Fatalf("テストモードのチェックインに失敗: %v", err)
		}
		if !resp.TestMode {
			t.Error("test_modeフラグが立っていません")
		}
	})
}

func TestOpenSession(t *testing.T) {
	ctx := context.Background()

	t.Run("セッションがrequesting状態で開始される", func(t *testing.T) {
		f := newCheckinFixture(false)

		session, err := f.useCase.OpenSession(ctx, "user1", "spot_kiyomizudera")
		if err != nil {
			t.Fatalf("セッション開始に失敗: %v", err)
		}

		if !strings.HasPrefix(session.SessionID, "chk_") {
			t.Errorf("セッションIDの形式が不正: %s", session.SessionID)
		}
		if session.State != model.AuthStateRequesting {
			t.Errorf("初期状態が不正: %s", session.State)
		}
		if session.TimeoutSeconds != 10 {
			t.Errorf("タイムアウト秒数が不正: %d", session.TimeoutSeconds)
		}
		if !session.ExpireAt.After(session.CreatedAt) {
			t.Error("有効期限が作成日時より前です")
		}
	})

	t.Run("訪問済みスポットではセッションを開始できない", func(t *testing.T) {
		f := newCheckinFixture(false)

		if _, err := f.useCase.CheckIn(ctx, "user1", "spot_kiyomizudera", reportAt(kiyomizuMonzen)); err != nil {
			t.Fatalf("チェックインに失敗: %v", err)
		}

		_, err := f.useCase.OpenSession(ctx, "user1", "spot_kiyomizudera")
		assertCheckinError(t, err, model.CheckinFailureAlreadyVisited)
	})

	t.Run("存在しないスポットはspot_not_found", func(t *testing.T) {
		f := newCheckinFixture(false)

		_, err := f.useCase.OpenSession(ctx, "user1", "spot_nonexistent")
		assertCheckinError(t, err, model.CheckinFailureSpotNotFound)
	})
}

func TestResolveSession(t *testing.T) {
	ctx := context.Background()

	t.Run("圏内の報告でセッションが成立する", func(t *testing.T) {
		f := newCheckinFixture(false)

		opened, err := f.useCase.OpenSession(ctx, "user1", "spot_kiyomizudera")
		if err != nil {
			t.Fatalf("セッション開始に失敗: %v", err)
		}

		session, resp, err := f.useCase.ResolveSession(ctx, "user1", opened.SessionID, reportAt(kiyomizuMonzen))
		if err != nil {
			t.Fatalf("セッション解決に失敗: %v", err)
		}

		if session.State != model.AuthStateGranted {
			t.Errorf("セッション状態が不正: %s", session.State)
		}
		if session.VisitID == "" {
			t.Error("訪問IDが記録されていません")
		}
		if resp == nil || resp.CoinsAwarded != 15 {
			t.Errorf("チェックイン結果が不正: %+v", resp)
		}

		visited, _ := f.visitsRepo.HasVisited(ctx, "user1", "spot_kiyomizudera")
		if !visited {
			t.Error("訪問記録が保存されていません")
		}
	})

	t.Run("圏外の報告はgrantedだが成立しない", func(t *testing.T) {
		f := newCheckinFixture(false)

		opened, _ := f.useCase.OpenSession(ctx, "user1", "spot_kiyomizudera")
		session, _, err := f.useCase.ResolveSession(ctx, "user1", opened.SessionID, reportAt(yasakajinja))
		assertCheckinError(t, err, model.CheckinFailureOutOfRange)

		// 位置情報の認可自体は成功しているため終端状態はgranted
		if session.State != model.AuthStateGranted {
			t.Errorf("セッション状態が不正: %s", session.State)
		}
		if session.VisitID != "" {
			t.Error("圏外なのに訪問IDが記録されています")
		}
		if session.Result == nil || session.Result.InRange {
			t.Errorf("判定結果が不正: %+v", session.Result)
		}
	})

	t.Run("端末エラーの報告でdeniedに確定する", func(t *testing.T) {
		f := newCheckinFixture(false)

		opened, _ := f.useCase.OpenSession(ctx, "user1", "spot_kiyomizudera")
		session, _, err := f.useCase.ResolveSession(ctx, "user1", opened.SessionID,
			&model.LocationReport{ErrorCode: model.GeolocationPermissionDenied})
		assertCheckinError(t, err, model.CheckinFailurePermissionDenied)

		if session.State != model.AuthStateDenied {
			t.Errorf("セッション状態が不正: %s", session.State)
		}
	})

	t.Run("期限切れセッションはtimeoutに確定する", func(t *testing.T) {
		f := newCheckinFixture(false)

		expired := &model.CheckinSession{
			SessionID:      "chk_expired",
			UserID:         "user1",
			SpotID:         "spot_kiyomizudera",
			SpotName:       "清水寺",
			State:          model.AuthStateRequesting,
			TimeoutSeconds: 10,
			CreatedAt:      time.Now().Add(-time.Minute),
			ExpireAt:       time.Now().Add(-50 * time.Second),
		}
		if err := f.sessionsRepo.Save(ctx, expired); err != nil {
			t.Fatalf("セッション保存に失敗: %v", err)
		}

		session, _, err := f.useCase.ResolveSession(ctx, "user1", "chk_expired", reportAt(kiyomizuMonzen))
		assertCheckinError(t, err, model.CheckinFailureTimeout)

		if session.State != model.AuthStateTimeout {
			t.Errorf("セッション状態が不正: %s", session.State)
		}
	})

	t.Run("解決済みセッションの再解決はconflict", func(t *testing.T) {
		f := newCheckinFixture(false)

		opened, _ := f.useCase.OpenSession(ctx, "user1", "spot_kiyomizudera")
		if _, _, err := f.useCase.ResolveSession(ctx, "user1", opened.SessionID, reportAt(kiyomizuMonzen)); err != nil {
			t.Fatalf("1回目の解決に失敗: %v", err)
		}

		_, _, err := f.useCase.ResolveSession(ctx, "user1", opened.SessionID, reportAt(kiyomizuMonzen))
		if !errors.Is(err, ErrSessionAlreadyResolved) {
			t.Errorf("再解決がconflictになりません: %v", err)
		}
	})

	t.Run("他ユーザーのセッションは存在しない扱い", func(t *testing.T) {
		f := newCheckinFixture(false)

		opened, _ := f.useCase.OpenSession(ctx, "user1", "spot_kiyomizudera")
		_, _, err := f.useCase.ResolveSession(ctx, "user2", opened.SessionID, reportAt(kiyomizuMonzen))
		if !errors.Is(err, repository.ErrSessionNotFound) {
			t.Errorf("他ユーザーのセッションが参照できています: %v", err)
		}
	})

	t.Run("存在しないセッションはnot found", func(t *testing.T) {
		f := newCheckinFixture(false)

		_, _, err := f.useCase.ResolveSession(ctx, "user1", "chk_nonexistent", reportAt(kiyomizuMonzen))
		if !errors.Is(err, repository.ErrSessionNotFound) {
			t.Errorf("存在しないセッションの判定が不正: %v", err)
		}
	})

	t.Run("セッション開始後に別経路でチェックイン済みの場合は二重付与しない", func(t *testing.T) {
		f := newCheckinFixture(false)

		opened, _ := f.useCase.OpenSession(ctx, "user1", "spot_kiyomizudera")
		if _, err := f.useCase.CheckIn(ctx, "user1", "spot_kiyomizudera", reportAt(kiyomizuMonzen)); err != nil {
			t.Fatalf("直接チェックインに失敗: %v", err)
		}

		_, _, err := f.useCase.ResolveSession(ctx, "user1", opened.SessionID, reportAt(kiyomizuMonzen))
		assertCheckinError(t, err, model.CheckinFailureAlreadyVisited)

		wallet, _ := f.visitsRepo.GetWallet(ctx, "user1")
		if wallet.Coins != 15 || wallet.CheckinCount != 1 {
			t.Errorf("二重付与が発生しています: coins=%d, count=%d", wallet.Coins, wallet.CheckinCount)
		}
	})
}

func TestGetSession(t *testing.T) {
	ctx := context.Background()

	t.Run("未解決セッションはrequestingのまま返る", func(t *testing.T) {
		f := newCheckinFixture(false)

		opened, _ := f.useCase.OpenSession(ctx, "user1", "spot_kiyomizudera")
		session, err := f.useCase.GetSession(ctx, "user1", opened.SessionID)
		if err != nil {
			t.Fatalf("セッション取得に失敗: %v", err)
		}
		if session.State != model.AuthStateRequesting {
			t.Errorf("状態が不正: %s", session.State)
		}
	})

	t.Run("期限切れセッションは取得時にtimeoutへ確定する", func(t *testing.T) {
		f := newCheckinFixture(false)

		expired := &model.CheckinSession{
			SessionID: "chk_expired",
			UserID:    "user1",
			SpotID:    "spot_kiyomizudera",
			State:     model.AuthStateRequesting,
			CreatedAt: time.Now().Add(-time.Minute),
			ExpireAt:  time.Now().Add(-50 * time.Second),
		}
		if err := f.sessionsRepo.Save(ctx, expired); err != nil {
			t.Fatalf("セッション保存に失敗: %v", err)
		}

		session, err := f.useCase.GetSession(ctx, "user1", "chk_expired")
		if err != nil {
			t.Fatalf("セッション取得に失敗: %v", err)
		}
		if session.State != model.AuthStateTimeout {
			t.Errorf("期限切れがtimeoutになっていません: %s", session.State)
		}
		if session.Result == nil || session.Result.ErrorCode != model.GeolocationTimeout {
			t.Errorf("判定結果が不正: %+v", session.Result)
		}
	})

	t.Run("他ユーザーのセッションは存在しない扱い", func(t *testing.T) {
		f := newCheckinFixture(false)

		opened, _ := f.useCase.OpenSession(ctx, "user1", "spot_kiyomizudera")
		_, err := f.useCase.GetSession(ctx, "user2", opened.SessionID)
		if !errors.Is(err, repository.ErrSessionNotFound) {
			t.Errorf("他ユーザーのセッションが参照できています: %v", err)
		}
	})

	t.Run("テストモードでは期限切れを無視する", func(t *testing.T) {
		f := newCheckinFixture(true)

		expired := &model.CheckinSession{
			SessionID: "chk_expired",
			UserID:    "user1",
			SpotID:    "spot_kiyomizudera",
			State:     model.AuthStateRequesting,
			CreatedAt: time.Now().Add(-time.Minute),
			ExpireAt:  time.Now().Add(-50 * time.Second),
		}
		if err := f.sessionsRepo.Save(ctx, expired); err != nil {
			t.Fatalf("セッション保存に失敗: %v", err)
		}

		session, err := f.useCase.GetSession(ctx, "user1", "chk_expired")
		if err != nil {
			t.Fatalf("セッション取得に失敗: %v", err)
		}
		if session.State != model.AuthStateRequesting {
			t.Errorf("テストモードで期限切れが確定されました: %s", session.State)
		}
	})
}
