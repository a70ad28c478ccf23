package pdftext

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExtractText(t *testing.T) {
	Convey("Given uploaded document payloads", t, func() {
		Convey("When the payload is plain text", func() {
			text, err := ExtractText([]byte("  BULLETIN DE PAIE\nNET À PAYER: 7,200.00  "))

			Convey("Then it should pass through trimmed", func() {
				So(err, ShouldBeNil)
				So(text, ShouldEqual, "BULLETIN DE PAIE\nNET À PAYER: 7,200.00")
			})
		})

		Convey("When the payload is empty", func() {
			_, err := ExtractText(nil)

			Convey("Then extraction should fail", func() {
				So(err, ShouldWrap, ErrExtraction)
			})
		})

		Convey("When the payload is only whitespace", func() {
			_, err := ExtractText([]byte("   \n\t  "))

			Convey("Then extraction should fail", func() {
				So(err, ShouldWrap, ErrExtraction)
			})
		})

		Convey("When the payload claims to be a PDF but is corrupt", func() {
			_, err := ExtractText([]byte("%PDF-1.7 garbage"))

			Convey("Then extraction should fail", func() {
				So(err, ShouldWrap, ErrExtraction)
			})
		})
	})
}

func TestIsPDF(t *testing.T) {
	Convey("Given payload sniffing", t, func() {
		Convey("When the payload starts with the PDF header", func() {
			So(IsPDF([]byte("%PDF-1.4\n")), ShouldBeTrue)
		})

		Convey("When the payload is plain text", func() {
			So(IsPDF([]byte("RELEVE BANCAIRE")), ShouldBeFalse)
			So(IsPDF(nil), ShouldBeFalse)
		})
	})
}
