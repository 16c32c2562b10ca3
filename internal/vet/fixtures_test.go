package vet

import (
	"github.com/philipparndt/vetmeasure/internal/measurement"
	"github.com/philipparndt/vetmeasure/pkg/geometry"
)

func pt(x, y float64) geometry.Point {
	return geometry.NewPoint(x, y)
}

// Femoral heads centered at (100,100) and (200,100), radius 20
func hipPoints() []geometry.Point {
	return []geometry.Point{
		pt(120, 100), pt(100, 120), pt(80, 100), pt(110, 80),
		pt(220, 100), pt(200, 120), pt(180, 100), pt(190, 80),
	}
}

// Plateau on y=0, circles centered at (50,40) and (50,100), saw center (50,0)
func tploPoints(sawX float64) []geometry.Point {
	return []geometry.Point{
		pt(0, 0), pt(100, 0),
		pt(60, 40), pt(50, 50), pt(40, 40),
		pt(60, 100), pt(50, 110), pt(40, 100),
		pt(sawX, 0),
	}
}

// Reference 100px, horizontal heart extent 40px, vertical 30px
func vhsPoints() []geometry.Point {
	return []geometry.Point{
		pt(0, 0), pt(100, 0),
		pt(200, 50), pt(240, 50),
		pt(220, 30), pt(220, 60),
	}
}

// Reference 100px, trachea to vena cava 50px
func vlasPoints() []geometry.Point {
	return []geometry.Point{
		pt(0, 0), pt(100, 0),
		pt(10, 10), pt(40, 50),
	}
}

var pixels = &measurement.Calibration{Ratio: 1, Unit: "px"}
