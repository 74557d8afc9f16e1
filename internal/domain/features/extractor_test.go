package features_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/teamovr/internal/domain/features"
	"github.com/okian/teamovr/internal/domain/model"
	"github.com/okian/teamovr/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// player builds a one-season player who played for tid.
func player(pid, tid, season int, pos string, ovr float64) model.Player {
	return model.Player{
		PID:     pid,
		Ratings: []model.RatingEntry{{Season: season, Pos: pos, Ovr: ovr}},
		Stats:   []model.PlayerStat{{Season: season, TID: tid, GP: 82}},
	}
}

func scenarioLeague() *model.League {
	return &model.League{
		Players: []model.Player{
			player(1, 0, 2020, "C", 70),
			player(2, 0, 2020, "C", 90),
			player(3, 0, 2020, "W", 60),
			player(4, 0, 2020, "C", 50),
			player(5, 0, 2020, "C", 85),
		},
		Teams: []model.Team{{
			TID:   0,
			Stats: []model.TeamStat{{Season: 2020, GP: 82, Pts: 300, OppPts: 250}},
		}},
	}
}

func TestColumns(t *testing.T) {
	Convey("Given the feature schema", t, func() {
		cols := features.Columns()

		Convey("Then it should list 19 slots in group order", func() {
			So(len(cols), ShouldEqual, features.NumSlots)
			So(cols[0], ShouldEqual, "C1")
			So(cols[3], ShouldEqual, "C4")
			So(cols[4], ShouldEqual, "W1")
			So(cols[11], ShouldEqual, "W8")
			So(cols[12], ShouldEqual, "D1")
			So(cols[17], ShouldEqual, "D6")
			So(cols[18], ShouldEqual, "G")
		})
	})
}

func TestOvrsByPosition(t *testing.T) {
	Convey("Given an extractor", t, func() {
		e := features.NewExtractor()

		Convey("When players of several positions played for the team", func() {
			players := []model.Player{
				player(1, 5, 2021, "C", 40),
				player(2, 5, 2021, "C", 80),
				player(3, 5, 2021, "D", 55),
				player(4, 5, 2021, "C", 60),
				player(5, 6, 2021, "C", 99), // other team
			}
			ovrs, err := e.OvrsByPosition(players, 5, 2021)

			Convey("Then ratings are grouped by position and sorted descending", func() {
				So(err, ShouldBeNil)
				So(ovrs[model.Center], ShouldResemble, []float64{80, 60, 40})
				So(ovrs[model.Defense], ShouldResemble, []float64{55})
				So(ovrs[model.Wing], ShouldBeEmpty)
			})
		})

		Convey("When a player was traded mid-season", func() {
			p := model.Player{
				PID: 9,
				Ratings: []model.RatingEntry{
					{Season: 2020, Pos: "W", Ovr: 50},
					{Season: 2021, Pos: "D", Ovr: 65},
				},
				Stats: []model.PlayerStat{
					{Season: 2020, TID: 1, GP: 80},
					{Season: 2021, TID: 1, GP: 20},
					{Season: 2021, TID: 2, GP: 60},
				},
			}

			Convey("Then he counts for both teams that season with that season's position", func() {
				a, err := e.OvrsByPosition([]model.Player{p}, 1, 2021)
				So(err, ShouldBeNil)
				So(a[model.Defense], ShouldResemble, []float64{65})

				b, err := e.OvrsByPosition([]model.Player{p}, 2, 2021)
				So(err, ShouldBeNil)
				So(b[model.Defense], ShouldResemble, []float64{65})
			})

			Convey("And his earlier season uses the earlier rating", func() {
				c, err := e.OvrsByPosition([]model.Player{p}, 1, 2020)
				So(err, ShouldBeNil)
				So(c[model.Wing], ShouldResemble, []float64{50})
			})
		})

		Convey("When a player has two stat lines for the same team-season", func() {
			p := model.Player{
				PID:     4,
				Ratings: []model.RatingEntry{{Season: 2020, Pos: "G", Ovr: 70}},
				Stats: []model.PlayerStat{
					{Season: 2020, TID: 3, GP: 60},
					{Season: 2020, TID: 3, GP: 8, Playoffs: true},
				},
			}
			ovrs, err := e.OvrsByPosition([]model.Player{p}, 3, 2020)

			Convey("Then he is credited only once", func() {
				So(err, ShouldBeNil)
				So(ovrs[model.Goalie], ShouldResemble, []float64{70})
			})
		})

		Convey("When the scan passes the target season before a match", func() {
			p := model.Player{
				PID:     5,
				Ratings: []model.RatingEntry{{Season: 2022, Pos: "C", Ovr: 70}},
				Stats: []model.PlayerStat{
					{Season: 2022, TID: 1, GP: 60},
					// out of order: never reached for 2021
					{Season: 2021, TID: 1, GP: 60},
				},
			}
			ovrs, err := e.OvrsByPosition([]model.Player{p}, 1, 2021)

			Convey("Then the player is not recorded and no rating lookup happens", func() {
				So(err, ShouldBeNil)
				So(ovrs, ShouldBeEmpty)
			})
		})

		Convey("When a matching player has no rating for the season", func() {
			p := model.Player{
				PID:     11,
				Ratings: []model.RatingEntry{{Season: 2019, Pos: "C", Ovr: 70}},
				Stats:   []model.PlayerStat{{Season: 2020, TID: 0, GP: 10}},
			}
			_, err := e.OvrsByPosition([]model.Player{p}, 0, 2020)

			Convey("Then it should return ErrMissingRating", func() {
				So(errors.Is(err, features.ErrMissingRating), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "pid 11")
			})
		})

		Convey("When a non-matching player has no rating for the season", func() {
			p := model.Player{
				PID:   12,
				Stats: []model.PlayerStat{{Season: 2020, TID: 4, GP: 10}},
			}
			_, err := e.OvrsByPosition([]model.Player{p}, 0, 2020)

			Convey("Then it is not an error", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When a rating carries an unknown position", func() {
			_, err := e.OvrsByPosition([]model.Player{player(1, 0, 2020, "F", 50)}, 0, 2020)

			Convey("Then it should return ErrUnknownPosition", func() {
				So(errors.Is(err, features.ErrUnknownPosition), ShouldBeTrue)
			})
		})

		Convey("When ratings tie", func() {
			ovrs, err := e.OvrsByPosition([]model.Player{
				player(1, 0, 2020, "W", 60),
				player(2, 0, 2020, "W", 70),
				player(3, 0, 2020, "W", 60),
			}, 0, 2020)

			Convey("Then the order is still non-increasing", func() {
				So(err, ShouldBeNil)
				So(ovrs[model.Wing], ShouldResemble, []float64{70, 60, 60})
			})
		})
	})
}

func TestStatsTidsFilter(t *testing.T) {
	Convey("Given a player whose statsTids omits the team he has a stat line for", t, func() {
		p := player(1, 0, 2020, "C", 77)
		p.StatsTids = []int{3}

		Convey("When the filter is on", func() {
			ovrs, err := features.NewExtractor().OvrsByPosition([]model.Player{p}, 0, 2020)

			Convey("Then the player is skipped", func() {
				So(err, ShouldBeNil)
				So(ovrs, ShouldBeEmpty)
			})
		})

		Convey("When the filter is off", func() {
			ovrs, err := features.NewExtractor(features.WithStatsTidsFilter(false)).OvrsByPosition([]model.Player{p}, 0, 2020)

			Convey("Then the player is scanned", func() {
				So(err, ShouldBeNil)
				So(ovrs[model.Center], ShouldResemble, []float64{77})
			})
		})

		Convey("When statsTids is absent", func() {
			p.StatsTids = nil
			ovrs, err := features.NewExtractor().OvrsByPosition([]model.Player{p}, 0, 2020)

			Convey("Then the player is scanned", func() {
				So(err, ShouldBeNil)
				So(ovrs[model.Center], ShouldResemble, []float64{77})
			})
		})
	})
}

func TestRequireGamesPlayed(t *testing.T) {
	Convey("Given a player listed with zero games for the team", t, func() {
		p := player(1, 0, 2020, "D", 66)
		p.Stats[0].GP = 0

		Convey("Then he counts by default", func() {
			ovrs, err := features.NewExtractor().OvrsByPosition([]model.Player{p}, 0, 2020)
			So(err, ShouldBeNil)
			So(ovrs[model.Defense], ShouldResemble, []float64{66})
		})

		Convey("Then he is ignored when games played are required", func() {
			ovrs, err := features.NewExtractor(features.WithRequireGamesPlayed(true)).OvrsByPosition([]model.Player{p}, 0, 2020)
			So(err, ShouldBeNil)
			So(ovrs, ShouldBeEmpty)
		})
	})
}

func TestVector(t *testing.T) {
	Convey("Given three centers rated 80, 60, 40", t, func() {
		e := features.NewExtractor()
		v := e.Vector(map[model.Position][]float64{model.Center: {80, 60, 40}})

		Convey("Then C1..C3 hold them and C4 is the default", func() {
			So(v.Group(model.Center), ShouldResemble, []float64{80, 60, 40, 20})
		})

		Convey("And every other slot is the default", func() {
			for _, x := range v[4:] {
				So(x, ShouldEqual, features.DefaultOvr)
			}
		})
	})

	Convey("Given a custom default and more players than slots", t, func() {
		e := features.NewExtractor(features.WithDefaultOvr(0))
		v := e.Vector(map[model.Position][]float64{model.Goalie: {75, 60}})

		Convey("Then only the best goalie is kept and empty slots use the custom default", func() {
			So(v.Group(model.Goalie), ShouldResemble, []float64{75})
			So(v[0], ShouldEqual, 0)
		})
	})
}

func TestExtract(t *testing.T) {
	Convey("Given the single-team scenario", t, func() {
		e := features.NewExtractor()
		src := []features.Source{{Name: "data1.json", League: scenarioLeague()}}

		Convey("When extracting", func() {
			table, err := e.Extract(context.Background(), src)

			Convey("Then one row matches the expected vector and diff", func() {
				So(err, ShouldBeNil)
				So(table.Len(), ShouldEqual, 1)
				row := table.Rows()[0]
				So(row.TID, ShouldEqual, 0)
				So(row.Season, ShouldEqual, 2020)
				So(row.Diff, ShouldEqual, 50)

				want := features.Vector{
					90, 85, 70, 50,
					60, 20, 20, 20, 20, 20, 20, 20,
					20, 20, 20, 20, 20, 20,
					20,
				}
				So(row.Features, ShouldResemble, want)
				So(table.Files(), ShouldResemble, []string{"data1.json"})
			})
		})
	})

	Convey("Given team seasons that are playoffs or empty", t, func() {
		league := scenarioLeague()
		league.Teams[0].Stats = append(league.Teams[0].Stats,
			model.TeamStat{Season: 2020, Playoffs: true, GP: 7, Pts: 20, OppPts: 15},
			model.TeamStat{Season: 2021, GP: 0},
		)
		league.Teams = append(league.Teams, model.Team{
			TID:   1,
			Stats: []model.TeamStat{{Season: 2020, GP: 82, Pts: 200, OppPts: 260}},
		})

		table, err := features.NewExtractor().Extract(context.Background(), []features.Source{{Name: "a.json", League: league}})

		Convey("Then only regular seasons with games become rows", func() {
			So(err, ShouldBeNil)
			So(table.Len(), ShouldEqual, 2)
			So(table.Rows()[1].TID, ShouldEqual, 1)
			So(table.Rows()[1].Diff, ShouldEqual, -60)
		})

		Convey("And a team with no players gets an all-default vector", func() {
			for _, x := range table.Rows()[1].Features {
				So(x, ShouldEqual, 20)
			}
		})

		Convey("And features and targets stay aligned", func() {
			So(len(table.Features()), ShouldEqual, table.Len())
			So(table.Targets(), ShouldResemble, []float64{50, -60})
		})
	})

	Convey("Given several files", t, func() {
		srcs := make([]features.Source, 0, 3)
		for i := 0; i < 3; i++ {
			srcs = append(srcs, features.Source{Name: fmt.Sprintf("data%d.json", i), League: scenarioLeague()})
		}

		Convey("Then rows follow file order and reruns are identical", func() {
			a, err := features.NewExtractor().Extract(context.Background(), srcs)
			So(err, ShouldBeNil)
			b, err := features.NewExtractor().Extract(context.Background(), srcs)
			So(err, ShouldBeNil)

			So(a.Len(), ShouldEqual, 3)
			So(a.Rows()[2].File, ShouldEqual, "data2.json")
			So(a.Rows(), ShouldResemble, b.Rows())
		})
	})

	Convey("Given a dump with a missing rating in its second file", t, func() {
		bad := scenarioLeague()
		bad.Players[0].Ratings = nil
		srcs := []features.Source{
			{Name: "data1.json", League: scenarioLeague()},
			{Name: "data2.json", League: bad},
		}

		table, err := features.NewExtractor().Extract(context.Background(), srcs)

		Convey("Then no table is produced", func() {
			So(table, ShouldBeNil)
			So(errors.Is(err, features.ErrMissingRating), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "data2.json")
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := features.NewExtractor().Extract(ctx, []features.Source{{Name: "x", League: scenarioLeague()}})

		Convey("Then extraction stops", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestTablePredictions(t *testing.T) {
	Convey("Given a two-row table", t, func() {
		table := features.NewTable([]string{"f"}, []features.Row{{Diff: 1}, {Diff: 2}})

		Convey("When attaching the wrong number of predictions", func() {
			err := table.SetPredictions([]float64{1})
			So(errors.Is(err, features.ErrPredictionLength), ShouldBeTrue)
			So(table.HasPredictions(), ShouldBeFalse)
		})

		Convey("When attaching one per row", func() {
			So(table.SetPredictions([]float64{1.5, 2.5}), ShouldBeNil)
			So(table.Predictions(), ShouldResemble, []float64{1.5, 2.5})
			So(table.HasPredictions(), ShouldBeTrue)
		})
	})
}
