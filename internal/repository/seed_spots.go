package repository

import "kyomeguri-backend/internal/domain/model"

// DefaultKyotoSpots インメモリリポジトリの初期データ
// 全カテゴリをカバーする京都市内の定番スポット
func DefaultKyotoSpots() []*model.Spot {
	return []*model.Spot{
		newSeedSpot("spot_kiyomizudera", "清水寺", "音羽山の中腹に建つ世界遺産。清水の舞台から京都市街を一望できる。",
			model.CategoryTempleShrine, model.DistrictHigashiyama, 34.994856, 135.785046, 15, 0),
		newSeedSpot("spot_kinkakuji", "金閣寺", "金箔に覆われた舎利殿が鏡湖池に映える、京都を代表する名刹。",
			model.CategoryTempleShrine, model.DistrictKita, 35.039705, 135.729243, 15, 0),
		newSeedSpot("spot_fushimiinari", "伏見稲荷大社", "千本鳥居で知られる全国の稲荷神社の総本宮。",
			model.CategoryTempleShrine, model.DistrictFushimi, 34.967140, 135.772672, 15, 150),
		newSeedSpot("spot_ginkakuji", "銀閣寺", "東山文化を象徴する簡素で趣のある山荘。正式名称は慈照寺。",
			model.CategoryTempleShrine, model.DistrictSakyo, 35.026889, 135.798254, 0, 0),
		newSeedSpot("spot_yasakajinja", "八坂神社", "祇園祭で知られる祇園の氏神。朱塗りの西楼門が目印。",
			model.CategoryTempleShrine, model.DistrictHigashiyama, 35.003662, 135.778492, 0, 0),
		newSeedSpot("spot_kitanotenmangu", "北野天満宮", "学問の神様・菅原道真公を祀る天満宮の総本社。梅の名所。",
			model.CategoryTempleShrine, model.DistrictKamigyo, 35.031250, 135.735336, 0, 0),
		newSeedSpot("spot_nishihonganji", "西本願寺", "浄土真宗本願寺派の本山。国宝の唐門は日暮門とも呼ばれる。",
			model.CategoryTempleShrine, model.DistrictShimogyo, 34.992239, 135.751709, 0, 0),
		newSeedSpot("spot_matsuotaisha", "松尾大社", "酒造りの神様として信仰を集める洛西の古社。",
			model.CategoryTempleShrine, model.DistrictNishikyo, 35.000255, 135.684678, 0, 0),
		newSeedSpot("spot_chikurin", "嵐山 竹林の小径", "天高く伸びる竹に囲まれた嵐山の散策路。",
			model.CategoryNatureGarden, model.DistrictUkyo, 35.017077, 135.671691, 0, 120),
		newSeedSpot("spot_tetsugakunomichi", "哲学の道", "琵琶湖疏水沿いに銀閣寺から南禅寺方面へ続く桜並木の小道。",
			model.CategoryNatureGarden, model.DistrictSakyo, 35.016984, 135.794371, 0, 200),
		newSeedSpot("spot_togetsukyo", "渡月橋", "桂川に架かる嵐山のシンボル。四季折々の山並みを背に渡る。",
			model.CategoryTownscape, model.DistrictUkyo, 35.013557, 135.677561, 0, 0),
		newSeedSpot("spot_hanamikoji", "祇園 花見小路", "お茶屋が軒を連ねる石畳の通り。夕暮れどきの風情が名高い。",
			model.CategoryTownscape, model.DistrictHigashiyama, 35.003116, 135.775088, 0, 0),
		newSeedSpot("spot_nishikiichiba", "錦市場", "「京の台所」と呼ばれる約400mのアーケード商店街。",
			model.CategoryGourmet, model.DistrictNakagyo, 35.005040, 135.764920, 0, 150),
		newSeedSpot("spot_nijojo", "二条城", "徳川家康が築いた平城。大政奉還の舞台となった二の丸御殿は国宝。",
			model.CategoryHistoryCulture, model.DistrictNakagyo, 35.014129, 135.748157, 12, 0),
		newSeedSpot("spot_kyotogosho", "京都御所", "明治維新まで天皇の住まいだった御殿。広大な京都御苑の中に建つ。",
			model.CategoryHistoryCulture, model.DistrictKamigyo, 35.025414, 135.762124, 0, 250),
		newSeedSpot("spot_funaokaonsen", "船岡温泉", "大正時代創業の登録有形文化財の銭湯。マジョリカタイルが見事。",
			model.CategoryOnsenRelax, model.DistrictKita, 35.040712, 135.743635, 0, 0),
	}
}

// newSeedSpot 初期データ1件を組み立てる
// coinRewardとradiusMetersは0のとき既定値を使う
func newSeedSpot(id, name, description, category, district string, lat, lng float64, coinReward int, radiusMeters float64) *model.Spot {
	spot := &model.Spot{
		ID:          id,
		Name:        name,
		Description: description,
		Category:    category,
		District:    district,
		Location: &model.Geometry{
			Type:        "Point",
			Coordinates: []float64{lng, lat},
		},
		CoinReward: coinReward,
	}
	if radiusMeters > 0 {
		spot.CheckinRadiusM = &radiusMeters
	}
	return spot
}
