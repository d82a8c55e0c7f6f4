package constants

import "testing"

func TestBuildDataResponse(t *testing.T) {
	res := BuildDataResponse([]int{1, 2})
	if res[ResponseFieldSuccess] != true {
		t.Error("Expected success true")
	}
	if _, ok := res[ResponseFieldData]; !ok {
		t.Error("Expected data field")
	}
	if _, ok := res[ResponseFieldMessage]; ok {
		t.Error("Expected no message field alongside data")
	}
}

func TestBuildMessageResponse(t *testing.T) {
	res := BuildMessageResponse("done")
	if res[ResponseFieldSuccess] != true {
		t.Error("Expected success true")
	}
	if res[ResponseFieldMessage] != "done" {
		t.Errorf("Expected message done, got %v", res[ResponseFieldMessage])
	}
}

func TestBuildErrorResponse(t *testing.T) {
	res := BuildErrorResponse("boom")
	if res[ResponseFieldSuccess] != false {
		t.Error("Expected success false")
	}
	if res[ResponseFieldMessage] != "boom" {
		t.Errorf("Expected message boom, got %v", res[ResponseFieldMessage])
	}
}
