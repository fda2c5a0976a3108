package teams

// collegeMascots are stripped as a trailing token from college team names,
// longest first.
var collegeMascots = []string{
	"wildcats", "bulldogs", "tigers", "eagles", "bears", "lions", "panthers",
	"hawks", "huskies", "cardinals", "knights", "bearcats", "buckeyes",
	"wolverines", "spartans", "gophers", "badgers", "hawkeyes", "cyclones",
	"jayhawks", "sooners", "longhorns", "aggies", "razorbacks", "rebels",
	"volunteers", "commodores", "gamecocks", "gators", "seminoles", "hurricanes",
	"cavaliers", "hokies", "wolfpack", "tar heels", "blue devils", "demon deacons",
	"orange", "yellow jackets", "fighting irish", "trojans", "bruins", "ducks",
	"beavers", "cougars", "utes", "buffaloes", "sun devils", "golden bears",
	"cardinal", "mountaineers", "red raiders", "horned frogs", "mustangs",
	"owls", "bobcats", "roadrunners", "miners", "lobos", "aztecs",
	"falcons", "rams", "broncos", "cowboys", "cornhuskers", "bluejays",
	"shockers", "pirates", "billikens", "musketeers", "hoyas",
	"friars", "red storm", "peacocks", "gaels", "toreros", "dons", "waves",
	"anteaters", "matadors", "titans", "highlanders", "hornets",
	"braves", "jaguars", "golden lions", "bison", "midshipmen", "black knights",
	"scarlet knights", "nittany lions", "terrapins", "hoosiers", "boilermakers",
	"fighting illini", "golden flashes", "redhawks", "rockets", "chippewas",
	"bulls", "zips", "penguins", "thundering herd", "flames",
	"crimson tide", "golden eagles", "golden hurricane", "green wave",
	"golden gophers",
}

type collegeEntry struct {
	code    string
	aliases []string
}

// collegeSchools is ordered; resolution walks it top to bottom so the first
// matching entry wins.
var collegeSchools = []collegeEntry{
	{"usc", []string{"southern california", "usc trojans", "trojans"}},
	{"ucla", []string{"ucla", "ucla bruins", "bruins"}},
	{"osu", []string{"ohio state", "ohio st", "buckeyes"}},
	{"mich", []string{"michigan", "wolverines"}},
	{"msu", []string{"michigan state", "michigan st", "spartans"}},
	{"psu", []string{"penn state", "penn st", "nittany lions"}},
	{"okla", []string{"oklahoma", "sooners"}},
	{"tex", []string{"texas", "longhorns"}},
	{"tamu", []string{"texas a&m", "texas am", "aggies"}},
	{"tcu", []string{"tcu", "horned frogs"}},
	{"bay", []string{"baylor", "bears"}},
	{"ttu", []string{"texas tech", "red raiders"}},
	{"ku", []string{"kansas", "jayhawks"}},
	{"ksu", []string{"kansas state", "kansas st", "wildcats"}},
	{"isu", []string{"iowa state", "iowa st", "cyclones"}},
	{"iowa", []string{"iowa", "hawkeyes"}},
	{"neb", []string{"nebraska", "cornhuskers"}},
	{"wisc", []string{"wisconsin", "badgers"}},
	{"minn", []string{"minnesota", "golden gophers", "gophers"}},
	{"ill", []string{"illinois", "fighting illini"}},
	{"ind", []string{"indiana", "hoosiers"}},
	{"pur", []string{"purdue", "boilermakers"}},
	{"nw", []string{"northwestern", "wildcats"}},
	{"rut", []string{"rutgers", "scarlet knights"}},
	{"md", []string{"maryland", "terrapins", "terps"}},
	{"unc", []string{"north carolina", "tar heels"}},
	{"duke", []string{"duke", "blue devils"}},
	{"ncsu", []string{"nc state", "north carolina state", "wolfpack"}},
	{"wake", []string{"wake forest", "demon deacons"}},
	{"uva", []string{"virginia", "cavaliers", "wahoos"}},
	{"vt", []string{"virginia tech", "hokies"}},
	{"clem", []string{"clemson", "tigers"}},
	{"lou", []string{"louisville", "cardinals"}},
	{"pitt", []string{"pittsburgh", "pitt", "panthers"}},
	{"syr", []string{"syracuse", "orange"}},
	{"bc", []string{"boston college", "eagles"}},
	{"nd", []string{"notre dame", "fighting irish"}},
	{"fsu", []string{"florida state", "florida st", "seminoles"}},
	{"fla", []string{"florida", "gators"}},
	{"uga", []string{"georgia", "bulldogs"}},
	{"aub", []string{"auburn", "tigers"}},
	{"bama", []string{"alabama", "crimson tide"}},
	{"lsu", []string{"lsu", "louisiana state", "tigers"}},
	{"miss", []string{"ole miss", "mississippi", "rebels"}},
	{"msst", []string{"mississippi state", "mississippi st", "bulldogs"}},
	{"ark", []string{"arkansas", "razorbacks"}},
	{"mizzou", []string{"missouri", "tigers"}},
	{"uk", []string{"kentucky", "wildcats"}},
	{"tenn", []string{"tennessee", "volunteers", "vols"}},
	{"van", []string{"vanderbilt", "commodores"}},
	{"scar", []string{"south carolina", "gamecocks"}},
	{"ore", []string{"oregon", "ducks"}},
	{"orst", []string{"oregon state", "oregon st", "beavers"}},
	{"wash", []string{"washington", "huskies"}},
	{"wsu", []string{"washington state", "washington st", "cougars"}},
	{"stan", []string{"stanford", "cardinal"}},
	{"cal", []string{"california", "cal", "golden bears"}},
	{"ariz", []string{"arizona", "wildcats"}},
	{"asu", []string{"arizona state", "arizona st", "sun devils"}},
	{"utah", []string{"utah", "utes"}},
	{"colo", []string{"colorado", "buffaloes", "buffs"}},
	{"byu", []string{"byu", "brigham young", "cougars"}},
	{"ucf", []string{"ucf", "central florida", "knights"}},
	{"cin", []string{"cincinnati", "bearcats"}},
	{"hou", []string{"houston", "cougars"}},
	{"wvu", []string{"west virginia", "mountaineers"}},
	{"unlv", []string{"unlv", "rebels"}},
	{"sdsu", []string{"san diego state", "san diego st", "aztecs"}},
	{"bsu", []string{"boise state", "boise st", "broncos"}},
	{"fres", []string{"fresno state", "fresno st", "bulldogs"}},
	{"sjsu", []string{"san jose state", "san jose st", "spartans"}},
	{"csu", []string{"colorado state", "colorado st", "rams"}},
	{"wyo", []string{"wyoming", "cowboys"}},
	{"unm", []string{"new mexico", "lobos"}},
	{"afa", []string{"air force", "falcons"}},
	{"navy", []string{"navy", "midshipmen"}},
	{"army", []string{"army", "black knights"}},
	{"smc", []string{"saint marys", "saint mary's", "gaels"}},
	{"sf", []string{"san francisco", "dons"}},
	{"gonz", []string{"gonzaga", "bulldogs", "zags"}},
	{"creigh", []string{"creighton", "bluejays"}},
	{"marq", []string{"marquette", "golden eagles"}},
	{"nova", []string{"villanova", "wildcats"}},
	{"gtown", []string{"georgetown", "hoyas"}},
	{"shu", []string{"seton hall", "pirates"}},
	{"prov", []string{"providence", "friars"}},
	{"xav", []string{"xavier", "musketeers"}},
	{"but", []string{"butler", "bulldogs"}},
	{"conn", []string{"connecticut", "uconn", "huskies"}},
	{"mem", []string{"memphis", "tigers"}},
	{"smu", []string{"smu", "southern methodist", "mustangs"}},
	{"tulsa", []string{"tulsa", "golden hurricane"}},
	{"tulane", []string{"tulane", "green wave"}},
}
