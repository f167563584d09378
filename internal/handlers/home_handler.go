package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultSwatchColor = "blue"
	defaultSwatchSize  = 100
	// 見本の四角は入力値に関係なく常にこのサイズ
	swatchSize = 300
)

// swatchState は /home の入力欄の状態です。保存はしません。
type swatchState struct {
	Color      string
	Size       string
	SwatchSize int
}

func parseSwatch(c *gin.Context) swatchState {
	state := swatchState{
		Color:      defaultSwatchColor,
		Size:       strconv.Itoa(defaultSwatchSize),
		SwatchSize: swatchSize,
	}
	if color, ok := c.GetQuery("color"); ok {
		state.Color = color
	}
	if size, ok := c.GetQuery("size"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(size), 64)
		if err != nil {
			n = 0
		}
		state.Size = strconv.FormatFloat(n, 'f', -1, 64)
	}
	return state
}

// HomeHandler は色とサイズの入力デモを描画します。
func HomeHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", parseSwatch(c))
}

// HomeAHandler は /home からリンクされたページです。
func HomeAHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "home_a.html", nil)
}
